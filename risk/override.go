package risk

// Overridable is a computed value the user may replace by hand. A manual
// value holds until the next Recompute, which means the inputs changed.
type Overridable struct {
	Computed    float64 `json:"computed"`
	HasComputed bool    `json:"has_computed"`
	Manual      float64 `json:"manual"`
	Overridden  bool    `json:"overridden"`
}

// Recompute stores a fresh engine result and discards any manual value.
// ok=false means the engine had nothing to say: the stale computed value is
// dropped but a manual value survives.
func (o *Overridable) Recompute(v float64, ok bool) {
	if !ok {
		o.Computed, o.HasComputed = 0, false
		return
	}
	o.Computed, o.HasComputed = v, true
	o.Overridden = false
}

func (o *Overridable) Override(v float64) {
	o.Manual = v
	o.Overridden = true
}

func (o *Overridable) Reset() {
	*o = Overridable{}
}

// Value returns the manual value when overridden, else the computed one.
func (o Overridable) Value() (float64, bool) {
	if o.Overridden {
		return o.Manual, true
	}
	return o.Computed, o.HasComputed
}
