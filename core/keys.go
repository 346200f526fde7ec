package core

// Key and mouse button codes use GLFW's numbering so a glfw window can
// report them without translation.
const (
	KeySpace     = 32
	Key1         = 49
	Key2         = 50
	Key3         = 51
	KeyA         = 65
	KeyD         = 68
	KeyE         = 69
	KeyP         = 80
	KeyQ         = 81
	KeyS         = 83
	KeyW         = 87
	KeyEscape    = 256
	KeyEnter     = 257
	KeyTab       = 258
	KeyRight     = 262
	KeyLeft      = 263
	KeyDown      = 264
	KeyUp        = 265
	KeyF1        = 290
	KeyLeftShift = 340
	KeyLast      = 348
)

const (
	MouseLeft   = 0
	MouseRight  = 1
	MouseMiddle = 2
)
