package plan

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// WriteJSON renders plans as an indented JSON array.
func WriteJSON(w io.Writer, plans []*Plan) error {
	if plans == nil {
		plans = []*Plan{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(plans); err != nil {
		return fmt.Errorf("failed to encode plans: %w", err)
	}
	return nil
}

// WriteText renders plans in a compact human-readable form.
func WriteText(w io.Writer, plans []*Plan) error {
	var sb strings.Builder
	for i, p := range plans {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "graph %s", p.Graph)
		if p.Parent != "" {
			fmt.Fprintf(&sb, " extends %s", p.Parent)
		}
		if len(p.Scopes) > 0 {
			fmt.Fprintf(&sb, " scopes [%s]", strings.Join(p.Scopes, ", "))
		}
		if len(p.Dynamic) > 0 {
			fmt.Fprintf(&sb, " with [%s]", strings.Join(p.Dynamic, ", "))
		}
		sb.WriteString("\n")

		for _, e := range p.Entries {
			fmt.Fprintf(&sb, "  [%d] %s = %s (%s, %s)", e.Index, e.Key, e.Location, e.Kind, e.Access)
			if e.Scope != "" {
				fmt.Fprintf(&sb, " @%s", e.Scope)
			}
			sb.WriteString("\n")
			for _, m := range e.Members {
				fmt.Fprintf(&sb, "      + %s\n", m)
			}
			for _, edge := range e.Edges {
				fmt.Fprintf(&sb, "      %s: %s -> %s\n", edge.Name, edge.Request, edgeTarget(edge))
			}
		}
		for _, r := range p.Roots {
			fmt.Fprintf(&sb, "  %s %s: %s -> %s\n", r.Kind, r.Name, r.Edge.Request, edgeTarget(r.Edge))
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func edgeTarget(e Edge) string {
	var s string
	switch e.Kind {
	case DefaultValue:
		s = "default " + e.Default
	case Inherited:
		s = fmt.Sprintf("%s[%d]", e.Graph, e.Index)
	default:
		s = fmt.Sprintf("[%d]", e.Index)
	}
	if e.Deferred {
		s += " (deferred)"
	}
	return s
}

// WriteHCL renders plans as HCL `plan` blocks.
func WriteHCL(w io.Writer, plans []*Plan) error {
	f := hclwrite.NewEmptyFile()
	root := f.Body()
	for i, p := range plans {
		if i > 0 {
			root.AppendNewline()
		}
		block := root.AppendNewBlock("plan", []string{p.Graph})
		body := block.Body()
		if p.Parent != "" {
			body.SetAttributeValue("parent", cty.StringVal(p.Parent))
		}
		if len(p.Scopes) > 0 {
			body.SetAttributeValue("scopes", stringList(p.Scopes))
		}
		if len(p.Dynamic) > 0 {
			body.SetAttributeValue("dynamic", stringList(p.Dynamic))
		}

		for _, e := range p.Entries {
			eb := body.AppendNewBlock("entry", []string{e.Key}).Body()
			eb.SetAttributeValue("index", cty.NumberIntVal(int64(e.Index)))
			eb.SetAttributeValue("kind", cty.StringVal(e.Kind))
			eb.SetAttributeValue("location", cty.StringVal(e.Location))
			eb.SetAttributeValue("access", cty.StringVal(e.Access.String()))
			if e.Scope != "" {
				eb.SetAttributeValue("scope", cty.StringVal(e.Scope))
			}
			if len(e.Members) > 0 {
				eb.SetAttributeValue("members", stringList(e.Members))
			}
			for _, edge := range e.Edges {
				writeEdge(eb.AppendNewBlock("edge", []string{edge.Name}).Body(), edge)
			}
		}
		for _, r := range p.Roots {
			rb := body.AppendNewBlock(r.Kind, []string{r.Name}).Body()
			writeEdge(rb, r.Edge)
		}
	}
	_, err := w.Write(f.Bytes())
	return err
}

func writeEdge(body *hclwrite.Body, e Edge) {
	body.SetAttributeValue("request", cty.StringVal(e.Request))
	body.SetAttributeValue("kind", cty.StringVal(e.Kind.String()))
	if e.Kind != DefaultValue {
		body.SetAttributeValue("index", cty.NumberIntVal(int64(e.Index)))
	}
	if e.Graph != "" {
		body.SetAttributeValue("graph", cty.StringVal(e.Graph))
	}
	if e.Deferred {
		body.SetAttributeValue("deferred", cty.True)
	}
	if e.Default != "" {
		body.SetAttributeValue("default", cty.StringVal(e.Default))
	}
}

func stringList(ss []string) cty.Value {
	vals := make([]cty.Value, 0, len(ss))
	for _, s := range ss {
		vals = append(vals, cty.StringVal(s))
	}
	return cty.ListVal(vals)
}
