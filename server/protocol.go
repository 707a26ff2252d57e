package server

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/replicore-go/replicore/dataset"
)

// expectationKind tags a pending data-socket payload with what it will
// become once it arrives.
type expectationKind int

const (
	expectData expectationKind = iota
	expectGroups
	expectWeights
	expectReplicate
)

// expectation describes the shape of the next payload due on the data
// socket, queued in the order its control command arrived.
type expectation struct {
	kind expectationKind
	rows int
	cols int // data/groups column count, or n_rep for replicate weights
}

func (e expectation) byteLen() int {
	switch e.kind {
	case expectWeights:
		return e.rows * 8
	default:
		return e.rows * e.cols * 8
	}
}

// applyCommand parses one control-channel line and mutates the session
// accordingly. It returns the text to ack on the control channel, and
// whether the command was "calculate" (whose real reply is the binary
// result written separately) or "shutdown".
func (s *Session) applyCommand(line string) (ack string, calculate bool, shutdown bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false, false, fmt.Errorf("server: empty command")
	}

	switch fields[0] {
	case "data":
		n, k, perr := parseDims(fields[1:])
		if perr != nil {
			return "", false, false, perr
		}
		if s.nRows != 0 && s.nRows != n {
			return "", false, false, fmt.Errorf("server: data row count %d does not match established %d", n, s.nRows)
		}
		s.nRows = n
		s.dataCols = k
		s.pushExpectation(expectation{kind: expectData, rows: n, cols: k})
		return "ok", false, false, nil

	case "groups":
		n, k, perr := parseDims(fields[1:])
		if perr != nil {
			return "", false, false, perr
		}
		if s.nRows != 0 && s.nRows != n {
			return "", false, false, fmt.Errorf("server: groups row count %d does not match established %d", n, s.nRows)
		}
		s.nRows = n
		s.groupCols = k
		s.pushExpectation(expectation{kind: expectGroups, rows: n, cols: k})
		return "ok", false, false, nil

	case "weights":
		if s.nRows == 0 {
			return "", false, false, fmt.Errorf("server: weights before data")
		}
		s.pushExpectation(expectation{kind: expectWeights, rows: s.nRows})
		return "ok", false, false, nil

	case "replicate":
		if len(fields) < 3 || fields[1] != "weights" {
			return "", false, false, fmt.Errorf("server: malformed replicate weights command")
		}
		nrep, perr := strconv.Atoi(fields[2])
		if perr != nil || nrep < 0 {
			return "", false, false, fmt.Errorf("server: bad replicate weight count %q", fields[2])
		}
		if s.nRows == 0 {
			return "", false, false, fmt.Errorf("server: replicate weights before data")
		}
		s.nrep = nrep
		s.pushExpectation(expectation{kind: expectReplicate, rows: s.nRows, cols: nrep})
		return "ok", false, false, nil

	case "variables":
		cols := make([]int, 0, len(fields)-1)
		for _, f := range fields[1:] {
			c, perr := strconv.Atoi(f)
			if perr != nil {
				return "", false, false, fmt.Errorf("server: bad column index %q", f)
			}
			cols = append(cols, c)
		}
		s.columns = cols
		return "ok", false, false, nil

	case "group_by":
		if len(fields) < 2 {
			return "", false, false, fmt.Errorf("server: group_by needs a column index")
		}
		col, perr := strconv.Atoi(fields[1])
		if perr != nil {
			return "", false, false, fmt.Errorf("server: bad group_by column %q", fields[1])
		}
		var values []float64
		for _, f := range fields[2:] {
			v, perr := strconv.ParseFloat(f, 64)
			if perr != nil {
				return "", false, false, fmt.Errorf("server: bad group value %q", f)
			}
			values = append(values, v)
		}
		s.group = &dataset.GroupSpec{Column: col, Values: values}
		return "ok", false, false, nil

	case "factor":
		if len(fields) < 2 {
			return "", false, false, fmt.Errorf("server: factor needs a value")
		}
		f, perr := strconv.ParseFloat(fields[1], 64)
		if perr != nil {
			return "", false, false, fmt.Errorf("server: bad factor %q", fields[1])
		}
		s.factor = f
		return "ok", false, false, nil

	case "mean", "quantiles", "frequencies", "correlation", "linreg":
		kind, kerr := kindFor(fields[0])
		if kerr != nil {
			return "", false, false, kerr
		}
		opts, operr := parseOptions(fields[1:])
		if operr != nil {
			return "", false, false, operr
		}
		s.kind = kind
		s.options = opts
		return "ok", false, false, nil

	case "calculate":
		return "", true, false, nil

	case "shutdown":
		return "ok", false, true, nil

	default:
		return "", false, false, fmt.Errorf("server: unknown command %q", fields[0])
	}
}

func parseDims(fields []string) (rows, cols int, err error) {
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("server: expected <n_rows> <n_cols>")
	}
	rows, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("server: bad n_rows %q", fields[0])
	}
	cols, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("server: bad n_cols %q", fields[1])
	}
	return rows, cols, nil
}

func kindFor(command string) (dataset.Kind, error) {
	switch command {
	case "mean":
		return dataset.Mean, nil
	case "quantiles":
		return dataset.Quantiles, nil
	case "frequencies":
		return dataset.Frequencies, nil
	case "correlation":
		return dataset.Correlation, nil
	case "linreg":
		return dataset.LinearRegression, nil
	default:
		return 0, fmt.Errorf("server: unknown estimator command %q", command)
	}
}

// parseOptions turns a run of "key=value" fields into a string map.
func parseOptions(fields []string) (map[string]string, error) {
	opts := make(map[string]string, len(fields))
	for _, f := range fields {
		kv := strings.SplitN(f, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("server: malformed option %q, want key=value", f)
		}
		opts[kv[0]] = kv[1]
	}
	return opts, nil
}
