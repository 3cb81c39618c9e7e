package pab

import "fmt"

// Operator selects the physical quantity prepared from a pair block:
// the plain product density, one of its Cartesian gradients (forces and
// stress), or the Laplacian (kinetic-energy density style terms).
type Operator int

const (
	Density Operator = iota
	GradX
	GradY
	GradZ
	Laplacian
)

// DerivOrder reports how many extra polynomial powers per axis the operator
// needs beyond the bare product.
func (op Operator) DerivOrder() int {
	switch op {
	case Density:
		return 0
	case GradX, GradY, GradZ:
		return 1
	case Laplacian:
		return 2
	}
	panic(fmt.Sprintf("pab: unknown operator %d", int(op)))
}

func (op Operator) String() string {
	switch op {
	case Density:
		return "density"
	case GradX:
		return "grad_x"
	case GradY:
		return "grad_y"
	case GradZ:
		return "grad_z"
	case Laplacian:
		return "laplacian"
	}
	return fmt.Sprintf("operator(%d)", int(op))
}

// ParseOperator maps a config string to an Operator.
func ParseOperator(s string) (Operator, error) {
	switch s {
	case "density":
		return Density, nil
	case "grad_x":
		return GradX, nil
	case "grad_y":
		return GradY, nil
	case "grad_z":
		return GradZ, nil
	case "laplacian":
		return Laplacian, nil
	}
	return 0, fmt.Errorf("pab: unknown operator %q", s)
}
