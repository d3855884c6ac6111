package solver

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-lp/lpcore/basis"
	"github.com/go-lp/lpcore/errs"
)

const basisFileHeader = "HiGHS Version"

// WriteBasis writes b in a textual, line-oriented format: a header line,
// "n m", then n status integers for the structural columns followed by m
// for the rows' logicals, using basis.Status's {basic=0, lower=1, upper=2,
// zero=3, nonbasic=4} encoding.
func WriteBasis(w io.Writer, b *basis.Basis, numCols, numRows int, headerVersion int) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s %d\n", basisFileHeader, headerVersion); err != nil {
		return errs.Wrap(errs.Internal, err)
	}
	if _, err := fmt.Fprintf(bw, "%d %d\n", numCols, numRows); err != nil {
		return errs.Wrap(errs.Internal, err)
	}
	for v := 0; v < numCols+numRows; v++ {
		if _, err := fmt.Fprintf(bw, "%d\n", b.StatusOf(v)); err != nil {
			return errs.Wrap(errs.Internal, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return errs.Wrap(errs.Internal, err)
	}
	return nil
}

// ReadBasis parses the format WriteBasis produces, failing with
// errs.InvalidInput on a malformed header or a dimension mismatch against
// numCols/numRows.
func ReadBasis(r io.Reader, numCols, numRows int) (*basis.Basis, error) {
	sc := bufio.NewScanner(r)

	if !sc.Scan() {
		return nil, errs.New(errs.InvalidInput, "basis file: missing header line")
	}
	if !strings.HasPrefix(sc.Text(), basisFileHeader) {
		return nil, errs.Newf(errs.InvalidInput, "basis file: unrecognized header %q", sc.Text())
	}

	if !sc.Scan() {
		return nil, errs.New(errs.InvalidInput, "basis file: missing dimension line")
	}
	fields := strings.Fields(sc.Text())
	if len(fields) != 2 {
		return nil, errs.Newf(errs.InvalidInput, "basis file: malformed dimension line %q", sc.Text())
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, errs.Wrap(errs.InvalidInput, err)
	}
	m, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, errs.Wrap(errs.InvalidInput, err)
	}
	if n != numCols || m != numRows {
		return nil, errs.Newf(errs.InvalidInput, "basis file: dimensions %d %d do not match expected %d %d", n, m, numCols, numRows)
	}

	status := make([]basis.Status, 0, n+m)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		code, err := strconv.Atoi(line)
		if err != nil {
			return nil, errs.Wrap(errs.InvalidInput, err)
		}
		status = append(status, basis.Status(code))
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.Internal, err)
	}

	return basis.NewFromStatus(n, m, status)
}
