package synth

// Distribution tracks the count, extremes and running mean of a sample.
type Distribution struct {
	n    int
	min  float64
	max  float64
	mean float64
}

// Update adds x to the sample.
func (d *Distribution) Update(x float64) {
	if d.n == 0 {
		d.min, d.max, d.mean = x, x, x
	} else {
		d.min = min(d.min, x)
		d.max = max(d.max, x)
		d.mean += (x - d.mean) / float64(d.n+1)
	}

	d.n++
}

func (d *Distribution) N() int { return d.n }
func (d *Distribution) Min() float64 { return d.min }
func (d *Distribution) Max() float64 { return d.max }
func (d *Distribution) Mean() float64 { return d.mean }
