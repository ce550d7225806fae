package main

import (
	"flag"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/clipevents/prefabs"
	"github.com/milk9111/clipevents/scene"
)

func main() {
	handler := flag.String("handler", "hero_events.yaml", "handler spec in prefabs/")
	dir := flag.String("dir", prefabs.Dir, "directory searched for prefabs before the embedded copies")
	watch := flag.Bool("watch", false, "rebind events when prefab files change")
	flag.Parse()

	prefabs.Dir = *dir

	sc, err := scene.New(*handler)
	if err != nil {
		log.Fatal(err)
	}

	var watcher *prefabs.Watcher
	if *watch {
		watcher, err = prefabs.NewWatcher(*dir, filepath.Join(*dir, "scripts"))
		if err != nil {
			log.Fatal(err)
		}
		defer watcher.Close()
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth*2, baseHeight*2)
	ebiten.SetWindowTitle("clipevents")

	if err := ebiten.RunGame(NewGame(sc, watcher)); err != nil {
		log.Fatal(err)
	}
}
