package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/urfave/cli"
	"golang.org/x/image/font/basicfont"

	"vector-engine/asset"
	"vector-engine/config"
	"vector-engine/core"
	"vector-engine/engine"
	"vector-engine/gpu"
	"vector-engine/internal/opengl"
	"vector-engine/log"
	"vector-engine/material"
	"vector-engine/platform"
	"vector-engine/renderer"
	"vector-engine/resource"
	"vector-engine/scene"
	"vector-engine/shader"
)

var logger = log.New("demo")

// trackedKeys are polled by core.Input every frame.
var trackedKeys = []int{
	core.KeyW, core.KeyA, core.KeyS, core.KeyD,
	core.KeyQ, core.KeyE, core.KeySpace, core.KeyLeftShift,
	core.KeyTab, core.KeyP, core.KeyEscape,
}

func main() {
	app := cli.NewApp()
	app.Name = "vector-demo"
	app.Usage = "render a lit, split-screen scene with particles and a HUD"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "open a window and run the demo scene",
			Description: `
Open a window and render a field of rotating crates from two cameras. The
second camera looks down on the scene from a small inverted-color inset.
WASD moves, Space and Shift rise and fall, Q and E or a right-mouse drag
turn. Tab toggles the inset, P pauses the day/night cycle and Escape quits.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config, c",
					Usage: "yaml config file; defaults are used when omitted",
				},
				cli.IntFlag{
					Name:  "width",
					Usage: "window width, overrides the config",
				},
				cli.IntFlag{
					Name:  "height",
					Usage: "window height, overrides the config",
				},
				cli.BoolFlag{
					Name:  "no-vsync",
					Usage: "disable vsync and pace frames with the target fps",
				},
				cli.StringFlag{
					Name:  "model, m",
					Usage: "obj, gltf or glb file drawn instead of the crate cube",
				},
			},
			Action: run,
		},
		{
			Name:      "write-config",
			Usage:     "write the default config to a file",
			ArgsUsage: "config.yaml",
			Action:    writeConfig,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func setupLogging(ctx *cli.Context, cfg *config.Config) error {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}
	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
	return nil
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := ctx.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if w := ctx.Int("width"); w > 0 {
		cfg.Window.Width = w
	}
	if h := ctx.Int("height"); h > 0 {
		cfg.Window.Height = h
	}
	if ctx.Bool("no-vsync") {
		cfg.Window.VSync = false
	}
	return cfg, cfg.Validate()
}

func writeConfig(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		return fmt.Errorf("missing output file")
	}
	if err := config.Save(config.Default(), path); err != nil {
		return err
	}
	logger.Noticef("wrote default config to %s", path)
	return nil
}

func run(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if err = setupLogging(ctx, cfg); err != nil {
		return err
	}

	window, err := platform.NewWindow(platform.WindowConfig{
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Title:      cfg.Window.Title,
		Resizable:  cfg.Window.Resizable,
		VSync:      cfg.Window.VSync,
		Fullscreen: cfg.Window.Fullscreen,
	})
	if err != nil {
		return err
	}
	defer window.Destroy()

	dev, err := opengl.NewDevice()
	if err != nil {
		return err
	}
	gctx := gpu.NewContext(dev)
	gctx.Debug = cfg.Render.DebugBindings

	reg := resource.NewRegistry(gctx)
	reg.TextureRoot = cfg.Assets.TextureDir
	defer reg.TeardownAll()

	lib := shader.NewLibrary(reg, cfg.Assets.ShaderDir)
	eng, err := renderer.New(reg, lib, window, renderer.Options{
		ClearColor: cfg.Render.Color(),
		UI:         cfg.Render.UI,
	})
	if err != nil {
		return err
	}
	defer eng.Destroy()

	input := core.NewInput(window, trackedKeys...)
	world, err := buildScene(reg, lib, eng, window, input, ctx.String("model"))
	if err != nil {
		return err
	}
	defer world.destroy(reg)
	world.dayNight = NewDayNight()
	world.quit = func() { window.SetShouldClose(true) }

	hud, err := buildHUD(reg, lib, eng, window)
	if err != nil {
		return err
	}
	defer hud.destroy()
	hud.world = world

	loop := engine.NewLoop(window, eng, input, engine.NewPacer(cfg.Frame.Interval(cfg.Window.VSync)))
	loop.Layers.Push(world, false)
	if cfg.Render.UI {
		loop.Layers.PushOverlay(hud, false)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("running at %dx%d (vsync %v)", cfg.Window.Width, cfg.Window.Height, cfg.Window.VSync)
	err = loop.Run(runCtx)
	logger.Noticef("stopped after %d frames", loop.Frames())
	return err
}

func buildScene(reg *resource.Registry, lib *shader.Library, eng *renderer.Engine, window renderer.WindowSizer, input *core.Input, model string) (*sceneLayer, error) {
	crateTex := reg.LoadTexture("crate.png")
	if crateTex == 0 {
		crateTex = reg.UploadImage(checkerImage(64, 8), gpu.FilterNearest, true)
	}
	staticProg, err := lib.Static(crateTex)
	if err != nil {
		return nil, err
	}

	meshData := asset.Cube(1)
	if model != "" {
		if meshData, err = loadModel(model); err != nil {
			return nil, err
		}
	}
	cube, err := reg.CreateMeshBuffers(meshData, nil)
	if err != nil {
		return nil, err
	}
	quad, err := reg.CreateMeshBuffers(asset.Quad(), nil)
	if err != nil {
		return nil, err
	}

	sparkTex := reg.UploadImage(sparkImage(16), gpu.FilterLinear, false)
	particleProg, err := lib.Particle(sparkTex)
	if err != nil {
		return nil, err
	}
	sparks, err := newSparks(rand.New(rand.NewSource(1)))
	if err != nil {
		return nil, err
	}

	invertedProg, err := lib.InvertedColor()
	if err != nil {
		return nil, err
	}

	primary := scene.NewCamera(reg)
	primary.Position = mgl32.Vec3{0, 2, 8}
	primary.Rotation = mgl32.Vec3{10, 0, 0}

	inset := scene.NewCamera(reg)
	inset.ViewportOffset = mgl32.Vec2{0.7, 0.7}
	inset.ViewportSize = mgl32.Vec2{0.25, 0.25}
	inset.PostProcess = material.New("inverted", invertedProg, 0)

	var blocks []core.Transform
	for x := -2; x <= 2; x++ {
		for z := -2; z <= 2; z++ {
			t := core.NewTransform()
			t.Position = mgl32.Vec3{float32(x) * 2.5, 0, float32(z) * 2.5}
			t.Rotation = mgl32.Vec3{0, float32((x + z) * 15), 0}
			blocks = append(blocks, t)
		}
	}

	return &sceneLayer{
		BaseLayer: engine.BaseLayer{LayerName: "scene"},
		input:     input,
		eng:       eng,
		window:    window,
		main:      primary,
		inset:     inset,
		showInset: true,
		cube:      cube,
		bounds:    scene.BoundsOf(meshData.Positions),
		crate:     material.New("crate", staticProg, material.UsesLights|material.UsesViewMatrix),
		blocks:    blocks,
		quad:      quad,
		sparks:    sparks,
		sparkMat:  material.New("sparks", particleProg, material.UsesViewMatrix|material.UsesTime|material.Instanced),
		sparkTex:  sparkTex,
		sparkBase: mgl32.Translate3D(0, 1, 0),
	}, nil
}

func buildHUD(reg *resource.Registry, lib *shader.Library, eng *renderer.Engine, window renderer.WindowSizer) (*hudLayer, error) {
	var printable strings.Builder
	for r := rune(32); r < 127; r++ {
		printable.WriteRune(r)
	}
	atlas, font := asset.BitmapFont(basicfont.Face7x13, printable.String())
	font.Texture = reg.UploadImage(atlas, gpu.FilterNearest, false)

	prog, err := lib.UI(font.Texture)
	if err != nil {
		return nil, err
	}
	return &hudLayer{
		BaseLayer: engine.BaseLayer{LayerName: "hud"},
		reg:       reg,
		eng:       eng,
		window:    window,
		font:      font,
		mat:       material.New("hud", prog, 0),
	}, nil
}

func loadModel(path string) (resource.MeshData, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return asset.LoadOBJFile(path)
	case ".gltf", ".glb":
		meshes, err := asset.LoadGLTF(path)
		if err != nil {
			return resource.MeshData{}, err
		}
		if len(meshes) > 1 {
			logger.Infof("%s: drawing the first of %d meshes", path, len(meshes))
		}
		return meshes[0], nil
	}
	return resource.MeshData{}, fmt.Errorf("%s: unsupported model format", path)
}

func checkerImage(size, cells int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	cell := max(size/cells, 1)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := color.NRGBA{R: 150, G: 110, B: 60, A: 255}
			if (x/cell+y/cell)%2 == 0 {
				c = color.NRGBA{R: 200, G: 160, B: 100, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// sparkImage is a white disc fading to transparent at its rim.
func sparkImage(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	center := float32(size-1) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := mgl32.Vec2{float32(x) - center, float32(y) - center}.Len() / center
			a := mgl32.Clamp(1-d, 0, 1)
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 240, B: 200, A: uint8(a * 255)})
		}
	}
	return img
}
