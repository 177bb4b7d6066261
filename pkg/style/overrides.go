package style

// Overrides are the user's live customizations. Empty fields keep the
// configured value.
type Overrides struct {
	NodeColor  string `json:"node_color,omitempty"`
	EdgeColor  string `json:"edge_color,omitempty"`
	Background string `json:"background,omitempty"`
	Curve      Curve  `json:"curve,omitempty"`
	HideLabels *bool  `json:"hide_labels,omitempty"`
}

// With returns a copy of c with o applied.
func (c Config) With(o Overrides) Config {
	c = c.Clone()
	if o.NodeColor != "" {
		c.NodeColor = o.NodeColor
	}
	if o.EdgeColor != "" {
		c.EdgeColor = o.EdgeColor
	}
	if o.Background != "" {
		c.Background = o.Background
	}
	if o.Curve != "" {
		c.Curve = o.Curve
	}
	if o.HideLabels != nil {
		c.HideLabels = *o.HideLabels
	}
	return c
}

// ResetNodeColors drops the uniform node color so the palette applies again.
func (o *Overrides) ResetNodeColors() { o.NodeColor = "" }

// ResetColors drops every color override: nodes, edges and background.
func (o *Overrides) ResetColors() {
	o.NodeColor = ""
	o.EdgeColor = ""
	o.Background = ""
}

// SetShowLabels records the label visibility choice.
func (o *Overrides) SetShowLabels(show bool) {
	hide := !show
	o.HideLabels = &hide
}
