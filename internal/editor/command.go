package editor

import "fmt"

// CommandKind names a scene-wide action requested from outside the frame
// loop: a panel button, a hotkey, the file watcher.
type CommandKind int

const (
	CmdExport CommandKind = iota
	CmdImport
	CmdClear
	CmdAddObject
	CmdDelete
)

func (k CommandKind) String() string {
	switch k {
	case CmdExport:
		return "export"
	case CmdImport:
		return "import"
	case CmdClear:
		return "clear"
	case CmdAddObject:
		return "add"
	case CmdDelete:
		return "delete"
	default:
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
}

// Command is queued with Editor.Post and executed by ProcessCommands.
type Command struct {
	Kind CommandKind

	// Path is the document for CmdExport and CmdImport. Empty means the
	// configured default.
	Path string

	// Model is the model name for CmdAddObject.
	Model string

	// Done, when set, receives the command's result. It must have room
	// for one value.
	Done chan<- error
}

// commandQueueSize bounds pending commands; Post fails beyond it.
const commandQueueSize = 16
