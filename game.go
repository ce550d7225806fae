package main

import (
	"fmt"
	"image/color"
	"log"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/clipevents/clip"
	"github.com/milk9111/clipevents/prefabs"
	"github.com/milk9111/clipevents/scene"
	"golang.org/x/image/font/basicfont"
)

const (
	baseWidth  = 640
	baseHeight = 360
)

type Game struct {
	frames int
	paused bool

	scene   *scene.Scene
	watcher *prefabs.Watcher
	ui      *ebitenui.UI
	face    ebtext.Face
	recent  []string
}

func NewGame(sc *scene.Scene, watcher *prefabs.Watcher) *Game {
	g := &Game{
		scene:   sc,
		watcher: watcher,
		face:    ebtext.NewGoXFace(basicfont.Face7x13),
	}
	g.ui = NewPauseUI(g)
	return g
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if g.paused {
		g.ui.Update()
		return nil
	}

	g.pollWatcher()
	g.handleClipKeys()

	g.scene.Update()
	for _, evt := range g.scene.Crossed() {
		g.recent = append(g.recent, fmt.Sprintf("%s %s", evt.Event.Function, clip.Key(evt.Clip, evt.Event.Time)))
	}
	if len(g.recent) > scene.MaxMessages {
		g.recent = g.recent[len(g.recent)-scene.MaxMessages:]
	}
	return nil
}

func (g *Game) handleClipKeys() {
	anim := g.scene.Animator()
	if anim == nil {
		return
	}
	clips := g.scene.Controller.Clips()
	keys := []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5}
	for i, k := range keys {
		if i < len(clips) && inpututil.IsKeyJustPressed(k) {
			anim.Play(clips[i].Name)
		}
	}
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	changed := g.watcher.Poll()
	if len(changed) == 0 {
		return
	}
	log.Printf("game: changed %s", strings.Join(changed, ", "))
	if _, err := g.scene.ReloadChanged(changed); err != nil {
		log.Printf("game: reload events: %v", err)
	}
}

func (g *Game) reload() {
	if err := g.scene.Reload(); err != nil {
		log.Printf("game: reload events: %v", err)
	}
}

func (g *Game) save() {
	if err := g.scene.Save(); err != nil {
		log.Printf("game: save controller: %v", err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x10, 0x10, 0x18, 0xff})

	var b strings.Builder
	fmt.Fprintf(&b, "Frames: %d    FPS: %.2f\n", g.frames, ebiten.ActualFPS())
	if anim := g.scene.Animator(); anim != nil {
		length := float32(0)
		if c := anim.Clip(); c != nil {
			length = c.Length
		}
		fmt.Fprintf(&b, "clip %s  %.2f / %.2f\n", anim.Current, anim.Time, length)
	}
	if r := g.scene.Receiver(); r != nil {
		for _, p := range r.Positions() {
			fmt.Fprintf(&b, "  %v: %s\n", p, strings.Join(r.Names(p), ", "))
		}
	}
	b.WriteString("\ncallbacks:\n")
	for _, m := range g.scene.Messages() {
		fmt.Fprintf(&b, "  %s\n", m)
	}
	g.drawText(screen, b.String(), 10, 10)

	var ev strings.Builder
	ev.WriteString("native events:\n")
	for _, r := range g.recent {
		fmt.Fprintf(&ev, "  %s\n", r)
	}
	g.drawText(screen, ev.String(), baseWidth/2+20, 10)

	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y float64) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.LineSpacing = 16
	op.ColorScale.ScaleWithColor(color.White)
	ebtext.Draw(screen, s, g.face, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
