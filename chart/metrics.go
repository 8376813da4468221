package chart

// Metrics returns the standard charts in page order.
func Metrics() []Spec {
	return []Spec{
		{
			Name:   "insert",
			Title:  "Insert time",
			XCol:   "n",
			XLabel: "Size",
			YCol:   "t_ins",
			YLabel: "Insert time (s)",
			Errors: true,
		},
		{
			Name:        "throughput",
			Title:       "Insert throughput",
			XCol:        "n",
			XLabel:      "Size",
			YCol:        "n",
			YLabel:      "Insert throughput (/s)",
			YDivisorCol: "elapsed",
		},
		{
			Name:   "iter",
			Title:  "Range query time",
			XCol:   "n",
			XLabel: "Size",
			YCol:   "t_iter",
			YLabel: "Range query time (s)",
			Errors: true,
		},
		{
			Name:   "q_dirs",
			Title:  "Directory nodes searched",
			XCol:   "n",
			XLabel: "Size",
			YCol:   "q_dirs",
			YLabel: "Directory nodes searched",
			Errors: true,
		},
		{
			Name:   "q_dats",
			Title:  "Leaf nodes searched",
			XCol:   "n",
			XLabel: "Size",
			YCol:   "q_dats",
			YLabel: "Leaf nodes searched",
			Errors: true,
		},
	}
}
