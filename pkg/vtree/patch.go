package vtree

// PatchOp is the type of mutation instruction.
type PatchOp uint8

const (
	OpCreateElement   PatchOp = iota // allocate element, append under scope top, push
	OpCreateText                     // allocate text, append under scope top, push
	OpCreateRaw                      // allocate raw node, append under scope top (leaf)
	OpMountComponent                 // mount nested component under scope top, push
	OpRetainNode                     // move node handle to new ledger, push
	OpRetainRaw                      // move raw handle to new ledger (leaf)
	OpRetainComponent                // move component handle to new ledger, push
	OpReplaceText                    // update text content in place, push
	OpRemoveNode                     // detach node from live tree
	OpDetachComponent                // tear down nested component
	OpSetAttr                        // set attribute on scope top
	OpRemoveAttr                     // remove attribute from scope top
	OpAddListener                    // subscribe on scope top, record token
	OpRemoveListener                 // cancel subscription
	OpRetainListener                 // move listener token to new ledger
	OpPop                            // close the current scope
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpCreateRaw:
		return "CreateRaw"
	case OpMountComponent:
		return "MountComponent"
	case OpRetainNode:
		return "RetainNode"
	case OpRetainRaw:
		return "RetainRaw"
	case OpRetainComponent:
		return "RetainComponent"
	case OpReplaceText:
		return "ReplaceText"
	case OpRemoveNode:
		return "RemoveNode"
	case OpDetachComponent:
		return "DetachComponent"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpAddListener:
		return "AddListener"
	case OpRemoveListener:
		return "RemoveListener"
	case OpRetainListener:
		return "RetainListener"
	case OpPop:
		return "Pop"
	default:
		return "Unknown"
	}
}

// Patch is a single mutation instruction. Which fields are meaningful
// depends on Op; Handle carries the old-ledger slot consumed by the
// diff for retain, replace, remove, and detach instructions.
type Patch struct {
	Op      PatchOp
	Name    string        // tag, attribute name, or event trigger
	Value   string        // text content, raw markup, or attribute value
	Handler Handler       // OpAddListener
	Comp    ComponentSpec // OpMountComponent
	Handle  StoredHandle  // consumed slot for retain/replace/remove ops
}

// Patches is an ordered mutation sequence produced by one Diff call
// and consumed by exactly one Apply call. Order mirrors a pre-order
// walk of the resulting tree, scoped by push/pop pairs.
type Patches []Patch

// IsNoop reports whether applying the sequence would cause no platform
// mutation beyond handle relocation: only retains and scope pops.
func (ps Patches) IsNoop() bool {
	for _, p := range ps {
		switch p.Op {
		case OpRetainNode, OpRetainRaw, OpRetainComponent, OpRetainListener, OpPop:
		default:
			return false
		}
	}
	return true
}
