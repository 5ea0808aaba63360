// Command footprint-plot renders a top-down footprint diagram for a robot
// configuration: chassis outline, wheel contact patches and sensor mounts.
package main

import (
	"flag"
	"log"

	"github.com/robodesc/urdfgen/internal/footprint"
	"github.com/robodesc/urdfgen/internal/geometry"
	"github.com/robodesc/urdfgen/internal/robot"
)

func main() {
	configPath := flag.String("config", "", "Robot configuration file (.json, .yaml); defaults when empty")
	outPath := flag.String("out", "footprint.png", "Output image path (.png, .svg, .pdf)")
	flag.Parse()

	cfg := robot.Default()
	if *configPath != "" {
		loaded, err := robot.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}

	frame, err := geometry.Resolve(cfg)
	if err != nil {
		log.Fatalf("failed to resolve geometry: %v", err)
	}

	if err := footprint.Render(cfg, frame, *outPath); err != nil {
		log.Fatalf("failed to render footprint: %v", err)
	}
	log.Printf("footprint written to %s", *outPath)
}
