package kernel

// AppID identifies an entry in the app table.
type AppID uint8

// AppMainMenu is started when the console boots and is never exited.
const AppMainMenu AppID = 0

// MaxAppName is the longest name the main menu can show.
const MaxAppName = 16

// Flags describe how an app is presented and scheduled.
type Flags uint8

const (
	// FlagMain lists the app in the main menu.
	FlagMain Flags = 1 << iota
	// FlagNoSleep keeps the console awake while the app is on top.
	FlagNoSleep
)

// App is one entry of the app table. Init runs when the app is called; it
// registers handlers on ctx and returns.
type App struct {
	ID    AppID
	Name  string
	Init  func(ctx *Context, param any)
	Flags Flags

	// EEPROMStart and EEPROMLength pick the app's slice of the persistent
	// store. A zero length means no storage.
	EEPROMStart  uint16
	EEPROMLength uint16
}
