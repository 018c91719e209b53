package natsuzora

import "strings"

// renderer is the tree-walking evaluator. It carries no state of its
// own beyond the loader reference: all mutable render state lives on
// the Context (scope stack) and, for includes, on the Loader (cache +
// include stack).
type renderer struct {
	loader *Loader
}

func (r *renderer) renderNodes(b *strings.Builder, nodes []Node, ctx *Context) error {
	for _, n := range nodes {
		if err := r.renderNode(b, n, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderNode(b *strings.Builder, n Node, ctx *Context) error {
	switch node := n.(type) {
	case *TextNode:
		b.WriteString(node.Content)
		return nil
	case *VariableNode:
		return r.renderVariable(b, node, ctx)
	case *UnsecureNode:
		return r.renderUnsecure(b, node, ctx)
	case *IfNode:
		return r.renderIf(b, node, ctx)
	case *UnlessNode:
		return r.renderUnless(b, node, ctx)
	case *EachNode:
		return r.renderEach(b, node, ctx)
	case *IncludeNode:
		return r.renderInclude(b, node, ctx)
	default:
		return newErr(KindTypeError, n.location(), "unhandled node type %T", n)
	}
}

func (r *renderer) renderVariable(b *strings.Builder, node *VariableNode, ctx *Context) error {
	v, err := ctx.resolve(node.Path, node.Loc)
	if err != nil {
		return err
	}
	var s string
	switch node.Modifier {
	case ModNullable:
		s, err = stringifyNullable(v, node.Loc)
	case ModRequired:
		s, err = stringifyRequired(v, node.Loc)
	default:
		s, err = stringify(v, node.Loc)
	}
	if err != nil {
		return err
	}
	b.WriteString(escapeHTML(s))
	return nil
}

// renderUnsecure emits v unescaped, following the same
// null-without-modifier rule as an unmodified variable: the value must
// be a string or integer and must not be null.
func (r *renderer) renderUnsecure(b *strings.Builder, node *UnsecureNode, ctx *Context) error {
	v, err := ctx.resolve(node.Path, node.Loc)
	if err != nil {
		return err
	}
	s, err := stringify(v, node.Loc)
	if err != nil {
		return err
	}
	b.WriteString(s)
	return nil
}

func (r *renderer) renderIf(b *strings.Builder, node *IfNode, ctx *Context) error {
	v, err := ctx.resolve(node.ConditionPath, node.Loc)
	if err != nil {
		return err
	}
	if IsTruthy(v) {
		return r.renderNodes(b, node.Then, ctx)
	}
	return r.renderNodes(b, node.Else, ctx)
}

func (r *renderer) renderUnless(b *strings.Builder, node *UnlessNode, ctx *Context) error {
	v, err := ctx.resolve(node.ConditionPath, node.Loc)
	if err != nil {
		return err
	}
	if IsTruthy(v) {
		return nil
	}
	return r.renderNodes(b, node.Body, ctx)
}

func (r *renderer) renderEach(b *strings.Builder, node *EachNode, ctx *Context) error {
	v, err := ctx.resolve(node.CollectionPath, node.Loc)
	if err != nil {
		return err
	}
	arr, ok := v.(ArrayValue)
	if !ok {
		return newErr(KindTypeError, node.Loc, "#each requires an array, got %s", v.TypeName())
	}
	for _, item := range arr {
		if err := ctx.pushScope(scope{node.ItemName: item}, node.Loc); err != nil {
			return err
		}
		renderErr := r.renderNodes(b, node.Body, ctx)
		ctx.popScope()
		if renderErr != nil {
			return renderErr
		}
	}
	return nil
}

// renderInclude resolves the partial, evaluates its arguments in the
// enclosing scope, guards against recursion, pushes the bindings with
// no shadowing check, then renders and unwinds.
func (r *renderer) renderInclude(b *strings.Builder, node *IncludeNode, ctx *Context) error {
	if r.loader == nil {
		return newErr(KindInclude, node.Loc, "include %q used with no loader configured", node.Name)
	}

	tmpl, err := r.loader.Load(node.Name)
	if err != nil {
		return err
	}

	bindings := make(scope, len(node.Args))
	for _, arg := range node.Args {
		v, err := ctx.resolve(arg.Value, arg.Loc)
		if err != nil {
			return err
		}
		bindings[arg.Key] = v
	}

	if err := r.loader.pushInclude(node.Name, node.Loc); err != nil {
		return err
	}
	defer r.loader.popInclude()

	ctx.pushIncludeScope(bindings)
	err = r.renderNodes(b, tmpl.Nodes, ctx)
	ctx.popScope()
	return err
}
