package ast

import "strconv"

// pendingSlot is a ParentSlot still looking for the ancestor step it
// binds to. level counts the remaining navigation hops to climb; it is
// decremented in place as the walk crosses steps, so a slot that fails to
// resolve against one candidate carries its reduced level into the next
// attempt made by an enclosing caller (spec §4.3: "If no ancestor is
// found, the slot propagates upward for the enclosing context to
// resolve").
type pendingSlot struct {
	label string
	level int
}

// resolver assigns each `%` occurrence a unique label.
type resolver struct {
	counter int
}

func (r *resolver) newLabel() string {
	r.counter++
	return "%" + strconv.Itoa(r.counter)
}

// ResolveAncestry performs the post-parse static resolution of every `%`
// (parent) reference to a labelled slot on a specific ancestor step (spec
// §4.3). It mutates the tree in place (attaching ParentLabels) and
// returns the same root, or an S0217 error if any `%` cannot be bound
// statically.
func ResolveAncestry(root *Node) (*Node, error) {
	r := &resolver{}
	_, seeking, err := r.resolve(root)
	if err != nil {
		return nil, err
	}
	if len(seeking) > 0 {
		return nil, NewError(ErrInvalidParentUse, "% (parent operator) cannot be resolved to an enclosing context")
	}
	return root, nil
}

// resolve walks node, resolving every `%` it can against an ancestor
// within the same subtree, and returns the slots it could not place —
// the caller (typically a Path/Filter/Sort node one level up) gets a
// chance to resolve those against its own left-hand context.
func (r *resolver) resolve(node *Node) (*Node, []*pendingSlot, error) {
	if node == nil {
		return nil, nil, nil
	}

	switch node.Kind {
	case NodeParent:
		slot := &pendingSlot{label: r.newLabel(), level: 1}
		// The label an ancestor step will bind (ParentLabels, below) is
		// recorded here too, on the leaf itself, so the evaluator knows
		// what name to look up when it reaches this node — ParentLabels
		// means "labels a step binds" everywhere else, but for a bare
		// NodeParent leaf it means "the one label this % reads".
		node.ParentLabels = []string{slot.label}
		return node, []*pendingSlot{slot}, nil

	case NodePath:
		_, leftSeek, err := r.resolve(node.LHS)
		if err != nil {
			return nil, nil, err
		}
		_, rightSeek, err := r.resolve(node.RHS)
		if err != nil {
			return nil, nil, err
		}
		var remaining []*pendingSlot
		for _, slot := range rightSeek {
			if !seekParent(node.LHS, slot) {
				remaining = append(remaining, slot)
			}
		}
		remaining = append(remaining, leftSeek...)
		return node, remaining, nil

	case NodeFilter:
		_, exprSeek, err := r.resolve(node.LHS)
		if err != nil {
			return nil, nil, err
		}
		if node.RHS != nil {
			_, predSeek, err := r.resolve(node.RHS)
			if err != nil {
				return nil, nil, err
			}
			for _, slot := range predSeek {
				if !seekParent(node.LHS, slot) {
					exprSeek = append(exprSeek, slot)
				}
			}
		}
		return node, exprSeek, nil

	case NodeSort:
		_, seqSeek, err := r.resolve(node.LHS)
		if err != nil {
			return nil, nil, err
		}
		for _, term := range node.Terms {
			_, keySeek, err := r.resolve(term.Expr)
			if err != nil {
				return nil, nil, err
			}
			for _, slot := range keySeek {
				if !seekParent(node.LHS, slot) {
					seqSeek = append(seqSeek, slot)
				}
			}
		}
		return node, seqSeek, nil

	case NodeLambda:
		_, bodySeek, err := r.resolve(node.RHS)
		if err != nil {
			return nil, nil, err
		}
		if len(bodySeek) > 0 {
			return nil, nil, NewError(ErrInvalidParentUse, "% (parent operator) cannot escape a lambda body")
		}
		return node, nil, nil

	default:
		var all []*pendingSlot
		children := collectChildren(node)
		for _, c := range children {
			_, seek, err := r.resolve(c)
			if err != nil {
				return nil, nil, err
			}
			all = append(all, seek...)
		}
		return node, all, nil
	}
}

// collectChildren returns every direct child node for kinds not handled
// specially above (Binary, Unary, Array, Object, Block, Conditional,
// FunctionCall, Range, Apply, Focus, IndexBind, Index/KeepArray, ...).
func collectChildren(node *Node) []*Node {
	var out []*Node
	if node.LHS != nil {
		out = append(out, node.LHS)
	}
	if node.RHS != nil {
		out = append(out, node.RHS)
	}
	if node.Else != nil {
		out = append(out, node.Else)
	}
	if node.Callee != nil {
		out = append(out, node.Callee)
	}
	out = append(out, node.Body...)
	for _, p := range node.Pairs {
		if p.Key != nil {
			out = append(out, p.Key)
		}
		if p.Value != nil {
			out = append(out, p.Value)
		}
	}
	for _, t := range node.Terms {
		if t.Expr != nil {
			out = append(out, t.Expr)
		}
	}
	return out
}

// seekParent walks target's flattened step list right-to-left (closest
// ancestor first), decrementing slot.level at every step except a
// transparent Focus (spec §4.3, §9: "Focus keeps context, not value").
// When level reaches the target step, that step's ParentLabels gains
// slot.label and the function reports success; otherwise slot.level is
// left decremented for the caller to keep propagating.
func seekParent(target *Node, slot *pendingSlot) bool {
	steps := FlattenSteps(target)
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		if step.Kind == NodeFocus {
			continue
		}
		if slot.level <= 1 {
			step.ParentLabels = appendUniqueLabel(step.ParentLabels, slot.label)
			return true
		}
		slot.level--
	}
	return false
}

func appendUniqueLabel(labels []string, label string) []string {
	for _, l := range labels {
		if l == label {
			return labels
		}
	}
	return append(labels, label)
}

// FlattenSteps decomposes a (possibly nested) Path node into its ordered
// list of navigation steps (spec §4.5.1: "A path expression A.B.C is
// flattened to an ordered list of steps"). A non-Path node is its own
// single-element step list. Shared by ancestry resolution and the
// evaluator so both agree on what counts as "one step".
func FlattenSteps(node *Node) []*Node {
	if node == nil {
		return nil
	}
	if node.Kind == NodePath {
		return append(FlattenSteps(node.LHS), node.RHS)
	}
	return []*Node{node}
}
