// Package la provides the block-structured linear-algebra containers
// assembled with the numbering a dof map produces.
package la

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ErrUnsupportedOperation reports an operation that is intentionally
// not implemented.
var ErrUnsupportedOperation = errors.New("operation not implemented")

// BlockVector is a vector partitioned into blocks, one per sub-system.
type BlockVector struct {
	blocks []*mat.VecDense
}

// NewBlockVector creates a block vector with n unset blocks.
func NewBlockVector(n int) *BlockVector {
	return &BlockVector{blocks: make([]*mat.VecDense, n)}
}

// NumBlocks returns the number of blocks.
func (bv *BlockVector) NumBlocks() int { return len(bv.blocks) }

// SetBlock installs block i.
func (bv *BlockVector) SetBlock(i int, v *mat.VecDense) {
	bv.blocks[i] = v
}

// Block returns block i (nil if unset).
func (bv *BlockVector) Block(i int) *mat.VecDense { return bv.blocks[i] }

// Zero zeroes every set block.
func (bv *BlockVector) Zero() {
	for _, b := range bv.blocks {
		if b != nil {
			b.Zero()
		}
	}
}

// BlockMatrix is an m-by-n arrangement of matrix blocks, one block per
// pair of sub-systems. Unset blocks act as zero.
type BlockMatrix struct {
	blocks [][]*mat.Dense
}

// NewBlockMatrix creates a block matrix with m-by-n unset blocks.
func NewBlockMatrix(m, n int) *BlockMatrix {
	blocks := make([][]*mat.Dense, m)
	for i := range blocks {
		blocks[i] = make([]*mat.Dense, n)
	}
	return &BlockMatrix{blocks: blocks}
}

// SetBlock installs block (i, j).
func (bm *BlockMatrix) SetBlock(i, j int, a *mat.Dense) {
	bm.blocks[i][j] = a
}

// Block returns block (i, j) (nil if unset).
func (bm *BlockMatrix) Block(i, j int) *mat.Dense { return bm.blocks[i][j] }

// Size returns the number of block rows (dim 0) or block columns
// (dim 1).
func (bm *BlockMatrix) Size(dim int) int {
	switch dim {
	case 0:
		return len(bm.blocks)
	case 1:
		if len(bm.blocks) == 0 {
			return 0
		}
		return len(bm.blocks[0])
	default:
		panic("block matrix has rank 2")
	}
}

// Zero zeroes every set block.
func (bm *BlockMatrix) Zero() {
	for _, row := range bm.blocks {
		for _, b := range row {
			if b != nil {
				b.Zero()
			}
		}
	}
}

// Mult computes y = A x block-row by block-row. Blocks of y are
// allocated (or resized) to match the block rows of A. The transposed
// variant is intentionally not implemented.
func (bm *BlockMatrix) Mult(x, y *BlockVector, transposed bool) error {
	if transposed {
		return fmt.Errorf("%w: transposed block multiply", ErrUnsupportedOperation)
	}
	if x.NumBlocks() != bm.Size(1) {
		return fmt.Errorf("input has %d blocks, matrix has %d block columns", x.NumBlocks(), bm.Size(1))
	}
	if y.NumBlocks() != bm.Size(0) {
		return fmt.Errorf("output has %d blocks, matrix has %d block rows", y.NumBlocks(), bm.Size(0))
	}

	for i, row := range bm.blocks {
		rows := 0
		for _, b := range row {
			if b != nil {
				rows, _ = b.Dims()
				break
			}
		}
		if rows == 0 {
			y.SetBlock(i, nil)
			continue
		}
		yi := mat.NewVecDense(rows, nil)
		tmp := mat.NewVecDense(rows, nil)
		for j, b := range row {
			if b == nil {
				continue
			}
			xj := x.Block(j)
			if xj == nil {
				return fmt.Errorf("input block %d is unset", j)
			}
			tmp.MulVec(b, xj)
			yi.AddVec(yi, tmp)
		}
		y.SetBlock(i, yi)
	}
	return nil
}

func (bm *BlockMatrix) String() string {
	return fmt.Sprintf("<BlockMatrix containing %d x %d blocks>", bm.Size(0), bm.Size(1))
}

// Describe renders the block matrix; the verbose form lists every
// block's dimensions.
func (bm *BlockMatrix) Describe(verbose bool) string {
	if !verbose {
		return bm.String()
	}
	var sb strings.Builder
	sb.WriteString(bm.String())
	sb.WriteString("\n\n")
	for i, row := range bm.blocks {
		for j, b := range row {
			if b == nil {
				sb.WriteString(fmt.Sprintf("  Block (%d, %d): unset\n", i, j))
				continue
			}
			r, c := b.Dims()
			sb.WriteString(fmt.Sprintf("  Block (%d, %d): %d x %d\n", i, j, r, c))
		}
	}
	return sb.String()
}
