package clip

import (
	"log"
	"strings"
)

// Controller is a named set of clips, the equivalent of the clip library an
// animator plays from.
type Controller struct {
	Name  string
	clips []*Clip
}

// NewController creates a controller holding clips in the given order.
func NewController(name string, clips ...*Clip) *Controller {
	c := &Controller{Name: name}
	for _, cl := range clips {
		c.AddClip(cl)
	}
	return c
}

// AddClip appends a clip. Nil clips are ignored.
func (c *Controller) AddClip(cl *Clip) {
	if c == nil || cl == nil {
		return
	}
	c.clips = append(c.clips, cl)
}

// Clips returns the controller's clips.
func (c *Controller) Clips() []*Clip {
	if c == nil {
		return nil
	}
	return append([]*Clip(nil), c.clips...)
}

// FindClipByName returns the first clip whose name equals name ignoring
// case, or nil. A miss is logged; callers treat it as a no-op.
func (c *Controller) FindClipByName(name string) *Clip {
	if c == nil {
		log.Printf("clip: lookup %q on nil controller", name)
		return nil
	}
	if cl, ok := c.Clip(name); ok {
		return cl
	}
	log.Printf("clip: clip %q not found in controller %q", name, c.Name)
	return nil
}

// Clip is FindClipByName without the miss diagnostic, for callers that poll
// every frame.
func (c *Controller) Clip(name string) (*Clip, bool) {
	if c == nil {
		return nil, false
	}
	for _, cl := range c.clips {
		if strings.EqualFold(cl.Name, name) {
			return cl, true
		}
	}
	return nil, false
}
