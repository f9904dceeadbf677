package io

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/table"
	"github.com/rs/zerolog/log"

	"github.com/phil-mansfield/gosphere/store"
)

// ReadAtomsTable appends the particles in a headerless column file to s.
// Columns are those of an Atoms line without image flags:
//
//     id type diameter density aux1 ... aux6 x y z
//
// Every row is validated like a data file record; reading stops at the
// first invalid row and returns the number of particles added before it.
func ReadAtomsTable(path string, s *store.Store) (int, error) {
	colIdxs := make([]int, AtomFields)
	for i := range colIdxs {
		colIdxs[i] = i
	}
	cols, err := table.ReadTable(path, colIdxs, nil)
	if err != nil {
		return 0, err
	}

	rows := len(cols[0])
	for row := 0; row < rows; row++ {
		rec, err := tableAtom(cols, row)
		if err == nil {
			err = AddAtom(s, rec)
		}
		if err != nil {
			return row, fmt.Errorf("row %d of %s: %w", row+1, path, err)
		}
	}

	log.Info().Str("file", path).Int("atoms", rows).Msg("read atoms table")
	return rows, nil
}

func tableAtom(cols [][]float64, row int) (*AtomRecord, error) {
	id, typ := cols[0][row], cols[1][row]
	if id != math.Trunc(id) || math.Abs(id) > 1<<53 {
		return nil, atomError("id", id, "not an integer")
	} else if typ != math.Trunc(typ) || math.Abs(typ) > math.MaxInt32 {
		return nil, atomError("type", typ, "not an integer")
	}

	rec := &AtomRecord{
		ID:       int64(id),
		Type:     int32(typ),
		Diameter: cols[2][row],
		Density:  cols[3][row],
	}
	for k := range rec.Aux {
		rec.Aux[k] = cols[4+k][row]
	}
	for k := 0; k < 3; k++ {
		rec.X[k] = cols[10+k][row]
	}
	return rec, nil
}
