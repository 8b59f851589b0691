package runtime

import "basic/pkg/errors"

// Context is a named evaluation frame. Frames link to the frame that entered
// them so runtime errors can print a traceback.
type Context struct {
	DisplayName    string
	Parent         *Context
	ParentEntryPos *errors.Position // nil for the outermost frame
	SymbolTable    *SymbolTable
}

// NewContext creates a frame named displayName. parent and entryPos may be nil.
func NewContext(displayName string, parent *Context, entryPos *errors.Position) *Context {
	return &Context{
		DisplayName:    displayName,
		Parent:         parent,
		ParentEntryPos: entryPos,
	}
}

// Lookup resolves name in the frame's symbol table.
func (c *Context) Lookup(name string) (Value, bool) {
	if c.SymbolTable == nil {
		return Value{}, false
	}
	return c.SymbolTable.Get(name)
}

// --- errors.Frame ---

func (c *Context) FrameName() string { return c.DisplayName }

func (c *Context) ParentFrame() errors.Frame {
	// A nil *Context must not leak into the interface.
	if c.Parent == nil {
		return nil
	}
	return c.Parent
}

func (c *Context) ParentEntry() (errors.Position, bool) {
	if c.ParentEntryPos == nil {
		return errors.Position{}, false
	}
	return *c.ParentEntryPos, true
}

var _ errors.Frame = (*Context)(nil)
