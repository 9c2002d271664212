// Command wrapdemo renders a wrapped level with the software renderer and
// writes each portal's view to a PNG file.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/worldwrap"
	"github.com/gogpu/worldwrap/config"
	"github.com/gogpu/worldwrap/material"
	"github.com/gogpu/worldwrap/portal"
	"github.com/gogpu/worldwrap/render"
	"github.com/gogpu/worldwrap/wrap"
)

func main() {
	var (
		level   = flag.String("level", "config/testdata/seam.toml", "level file")
		frames  = flag.Int("frames", 3, "frames to render")
		step    = flag.Float64("step", 0.5, "viewer movement per frame")
		outDir  = flag.String("out", ".", "output directory")
		spirv   = flag.Bool("spirv", false, "also write the compiled portal shader")
		verbose = flag.Bool("v", false, "log diagnostics")
	)
	flag.Parse()

	if *verbose {
		worldwrap.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := run(*level, *outDir, *frames, *step, *spirv); err != nil {
		log.Fatal(err)
	}
}

func run(level, outDir string, frames int, step float64, spirv bool) error {
	lvl, err := config.Load(level)
	if err != nil {
		return fmt.Errorf("load level: %w", err)
	}
	reg, err := lvl.Registry()
	if err != nil {
		return fmt.Errorf("invalid level: %w", err)
	}

	world := render.DefaultWorld()
	if setup := lvl.WrapSetup(); setup != nil {
		res, err := setup.Apply(newCopier(world, setup.Primary.Name))
		if err != nil {
			return fmt.Errorf("wrap setup: %w", err)
		}
		log.Printf("Placed %d copies, offset %v", len(res.Placements), res.Offset)
	}

	renderer := render.NewSoftwareRenderer(world)
	frame := lvl.Frame()
	ctrl := portal.NewController(reg, renderer, render.PixmapAllocator{},
		portal.WithPreview(frame.Preview != nil))
	defer ctrl.Release()

	viewer := &frame.Primary.Transform
	repo := lvl.Repositioner(viewer)
	for i := 0; i < frames; i++ {
		if err := ctrl.Update(frame); err != nil {
			if portal.IsConfigError(err) {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			log.Printf("Frame %d: %v", i, err)
		}
		viewer.Translate(viewer.Forward().Mul(step))
		if repo != nil {
			repo.Update()
		}
	}

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return err
	}
	for _, id := range reg.Surfaces() {
		s := reg.Surface(id)
		if s.Targets() == nil || !s.Targets().Ready() {
			continue
		}
		path := filepath.Join(outDir, s.Name+".png")
		if err := savePNG(path, s.Targets().Persistent(int(portal.Primary))); err != nil {
			return fmt.Errorf("save %s: %w", s.Name, err)
		}
		log.Printf("%s saved to %s", s.Name, path)
	}

	if spirv {
		if err := saveSPIRV(filepath.Join(outDir, "portal.spv")); err != nil {
			return fmt.Errorf("compile shader: %w", err)
		}
	}

	st := renderer.Stats()
	log.Printf("Rendered %d frames: %d renders, %d blits, %d pixels", frames, st.Renders, st.Blits, st.Pixels)
	return nil
}

// copier places a shifted copy of the world's base pillars for the
// primary group and a single marker pillar for every other group.
type copier struct {
	world   *render.World
	primary string
	base    []render.Pillar
}

func newCopier(world *render.World, primary string) *copier {
	return &copier{
		world:   world,
		primary: primary,
		base:    append([]render.Pillar(nil), world.Pillars...),
	}
}

func (c *copier) Instantiate(g wrap.Group, pos mgl64.Vec3) error {
	if g.Name == c.primary {
		c.world.AddCopy(c.base, pos.Sub(g.Origin))
		return nil
	}
	c.world.Pillars = append(c.world.Pillars, render.Pillar{
		Base:   pos,
		Radius: 0.6,
		Height: 1.5,
		Color:  color.RGBA{R: 230, G: 180, B: 40, A: 255},
		Layer:  render.LayerDefault,
	})
	return nil
}

func savePNG(path string, target render.RenderTarget) error {
	pt, ok := target.(*render.PixmapTarget)
	if !ok {
		return fmt.Errorf("%s: %w", target.Label(), render.ErrNotCPUTarget)
	}
	f, err := os.Create(path) //nolint:gosec // output path comes from flags
	if err != nil {
		return err
	}
	if err := png.Encode(f, pt.Image()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func saveSPIRV(path string) error {
	words, err := material.PortalShaderSPIRV()
	if err != nil {
		return err
	}
	buf := make([]byte, 0, len(words)*4)
	for _, w := range words {
		buf = append(buf, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}
	return os.WriteFile(path, buf, 0o600)
}
