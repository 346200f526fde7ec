package core

// InputSource is polled once per frame by Input. platform.Window implements it.
type InputSource interface {
	Focused() bool
	IsKeyPressed(key int) bool
	IsMouseButtonPressed(button int) bool
	GetCursorPos() (float64, float64)
}

const (
	maxKeys    = 512
	maxButtons = 8
)

// Input tracks keyboard and mouse state across frames for edge detection.
// While the source is unfocused every query reports neutral state: nothing
// held, nothing pressed or released and no cursor motion.
type Input struct {
	source InputSource
	keys   []int

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64

	focused          bool
	firstFrame       bool
	keysNow          [maxKeys]bool
	keysPrev         [maxKeys]bool
	mouseButtons     [maxButtons]bool
	mouseButtonsPrev [maxButtons]bool
}

// NewInput polls keys from source. Only the listed keys are tracked.
func NewInput(source InputSource, keys ...int) *Input {
	tracked := make([]int, 0, len(keys))
	for _, k := range keys {
		if k >= 0 && k < maxKeys {
			tracked = append(tracked, k)
		}
	}
	return &Input{source: source, keys: tracked, firstFrame: true}
}

// Update polls the source. Call once per frame after events are processed.
func (in *Input) Update() {
	in.keysPrev = in.keysNow
	in.mouseButtonsPrev = in.mouseButtons
	in.MouseDeltaX, in.MouseDeltaY = 0, 0

	in.focused = in.source.Focused()
	if !in.focused {
		in.keysNow = [maxKeys]bool{}
		in.mouseButtons = [maxButtons]bool{}
		in.keysPrev = in.keysNow
		in.mouseButtonsPrev = in.mouseButtons
		in.firstFrame = true
		return
	}

	x, y := in.source.GetCursorPos()
	if in.firstFrame {
		in.MouseX, in.MouseY = x, y
		in.firstFrame = false
	}
	in.MouseDeltaX = x - in.MouseX
	in.MouseDeltaY = y - in.MouseY
	in.MouseX, in.MouseY = x, y

	for b := 0; b < 3; b++ {
		in.mouseButtons[b] = in.source.IsMouseButtonPressed(b)
	}
	for _, k := range in.keys {
		in.keysNow[k] = in.source.IsKeyPressed(k)
	}
}

func (in *Input) Focused() bool { return in.focused }

// KeyDown reports whether key is held.
func (in *Input) KeyDown(key int) bool {
	if key < 0 || key >= maxKeys {
		return false
	}
	return in.keysNow[key]
}

// KeyPressed reports whether key went down this frame.
func (in *Input) KeyPressed(key int) bool {
	if key < 0 || key >= maxKeys {
		return false
	}
	return in.keysNow[key] && !in.keysPrev[key]
}

// KeyReleased reports whether key went up this frame.
func (in *Input) KeyReleased(key int) bool {
	if key < 0 || key >= maxKeys {
		return false
	}
	return !in.keysNow[key] && in.keysPrev[key]
}

func (in *Input) MouseDown(button int) bool {
	if button < 0 || button >= maxButtons {
		return false
	}
	return in.mouseButtons[button]
}

func (in *Input) MousePressed(button int) bool {
	if button < 0 || button >= maxButtons {
		return false
	}
	return in.mouseButtons[button] && !in.mouseButtonsPrev[button]
}

func (in *Input) MouseReleased(button int) bool {
	if button < 0 || button >= maxButtons {
		return false
	}
	return !in.mouseButtons[button] && in.mouseButtonsPrev[button]
}
