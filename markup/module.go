package markup

import (
	"log/slog"

	"github.com/expr-lang/expr/ast"
)

// Module is one parsed source unit: an ordered list of top-level items.
type Module struct {
	Items []Item
}

// Item is a top-level declaration of a source module.
type Item interface{ item() }

// Directive is a structure-level configuration switch, e.g. #markup true.
// Directives the engine does not recognize are left for other tooling.
type Directive struct {
	Name  string
	Value ast.Node
}

func (*Directive) item() {}

// Binding associates an optional name with an expression. A Binding with
// an empty name is a bare top-level expression.
type Binding struct {
	Name string
	Expr ast.Node
}

func (*Binding) item() {}

// FeatureDirective is the directive name that toggles the markup
// transform. Its payload must be a boolean literal.
const FeatureDirective = "markup"

// Apply processes a module's items in order. Feature directives take
// effect for all subsequent items; while the feature is disabled, marked
// markup expressions pass through unchanged.
//
// The first fatal diagnostic aborts the run, yielding no transformed
// output for the unit.
func (e *Engine) Apply(mod *Module) error {
	for _, item := range mod.Items {
		switch it := item.(type) {
		case *Directive:
			if err := e.applyDirective(it); err != nil {
				return err
			}

		case *Binding:
			if err := e.Rewrite(&it.Expr); err != nil {
				return err
			}
		}
	}

	return nil
}

// applyDirective handles the feature directive; any payload other than a
// boolean literal is a fatal configuration error naming the directive.
func (e *Engine) applyDirective(dir *Directive) error {
	if dir.Name != FeatureDirective {
		return nil
	}

	b, ok := dir.Value.(*ast.BoolNode)
	if !ok {
		return ErrConfiguration.
			With(slog.String("directive", dir.Name)).
			At(dir.Value)
	}

	e.logger.Debug("feature directive",
		slog.String("directive", dir.Name),
		slog.Bool("enabled", b.Value))

	e.enabled = b.Value

	return nil
}
