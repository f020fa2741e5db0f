package core

// Action is a semantic input, abstracted from physical keys.
// WASD and the arrow keys both map to the Move* actions.
type Action int

const (
	ActionNone      Action = iota
	ActionMoveUp           // W, Up arrow
	ActionMoveDown         // S, Down arrow
	ActionMoveLeft         // A, Left arrow
	ActionMoveRight        // D, Right arrow
	ActionFire             // Space, mouse button
	ActionDash             // Shift modifier
	ActionGrenade          // G
	ActionRestart          // R, only honoured after death
	ActionPause            // P
	ActionBack             // B, Escape
	ActionQuit             // Q, Ctrl+C
	ActionDebug            // F9, ignored unless debug mode is on
	actionCount
)

// ActionCount is the number of distinct actions, for fixed-size lookups.
const ActionCount = int(actionCount)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionMoveUp:
		return "Up"
	case ActionMoveDown:
		return "Down"
	case ActionMoveLeft:
		return "Left"
	case ActionMoveRight:
		return "Right"
	case ActionFire:
		return "Fire"
	case ActionDash:
		return "Dash"
	case ActionGrenade:
		return "Grenade"
	case ActionRestart:
		return "Restart"
	case ActionPause:
		return "Pause"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	case ActionDebug:
		return "Debug"
	default:
		return "Unknown"
	}
}

// Direction is the facing of the player.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}
