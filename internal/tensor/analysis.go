package tensor

// StructureKind names the local image structure suggested by the tensor.
type StructureKind string

const (
	StructureFlat   StructureKind = "flat"
	StructureEdge   StructureKind = "edge"
	StructureCorner StructureKind = "corner"
)

// Coherence measures anisotropy as ((λ1-λ2)/(λ1+λ2))².
//
// It is 1 for an ideal edge (one direction of variation), 0 for an isotropic
// neighbourhood, and 0 when both eigenvalues vanish. Negative round-off
// eigenvalues are treated as zero.
func Coherence(e EigenResult) float64 {
	l1, l2 := e[0].Value, e[1].Value
	if l1 < 0 {
		l1 = 0
	}
	if l2 < 0 {
		l2 = 0
	}
	sum := l1 + l2
	if sum == 0 {
		return 0
	}
	diff := (l1 - l2) / sum
	return diff * diff
}

// Classify labels a projected result. Neighbourhoods whose larger scaled
// eigenvalue is below flatThreshold are flat; otherwise coherence at or above
// edgeCoherence means an edge and anything else a corner.
func Classify(d DisplayResult, coherence, flatThreshold, edgeCoherence float64) StructureKind {
	switch {
	case d.Values[0] < flatThreshold:
		return StructureFlat
	case coherence >= edgeCoherence:
		return StructureEdge
	default:
		return StructureCorner
	}
}

// Analysis is the full result of one query, carrying the intermediate tensor
// and raw eigenpairs alongside the projected values.
type Analysis struct {
	// X and Y are the requested coordinates.
	X int `json:"x"`
	Y int `json:"y"`

	// SampleX and SampleY are the coordinates after clamping into the image.
	SampleX int `json:"sample_x"`
	SampleY int `json:"sample_y"`

	KernelSize int     `json:"kernel_size"`
	Sigma      float64 `json:"sigma"`

	Tensor    StructureTensor `json:"tensor"`
	Eigen     EigenResult     `json:"eigen"`
	Display   DisplayResult   `json:"display"`
	Coherence float64         `json:"coherence"`
}

// Analyze runs a query like QueryStructureTensor and keeps every
// intermediate value. The kernel parameters are recorded so a result can
// always be matched to the table that produced it.
func Analyze(img *Image, k *Kernel, x, y int) Analysis {
	t := BuildStructureTensor(img.gradients, k, x, y)
	e := Eigen(t)
	sx, sy := img.ClampPoint(x, y)
	return Analysis{
		X:          x,
		Y:          y,
		SampleX:    sx,
		SampleY:    sy,
		KernelSize: k.Size(),
		Sigma:      k.Sigma(),
		Tensor:     t,
		Eigen:      e,
		Display:    Project(e),
		Coherence:  Coherence(e),
	}
}
