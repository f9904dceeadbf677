package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phil-mansfield/gosphere/geom"
	"github.com/phil-mansfield/gosphere/store"
)

var (
	// ErrInvalidField is wrapped by every *FieldError.
	ErrInvalidField = errors.New("io: invalid field")
	// ErrDataFormat is returned when a data file is structurally malformed.
	ErrDataFormat = errors.New("io: malformed data file")
)

// Number of fields in Atoms lines without and with image flags, and in
// Velocities lines.
const (
	AtomFields      = 13
	AtomImageFields = 16
	VelFields       = 7
)

var auxNames = [6]string{"aux1", "aux2", "aux3", "aux4", "aux5", "aux6"}

// FieldError reports a single field of a data file record which could not
// be accepted.
type FieldError struct {
	Section string
	Line    int // 0 if unknown.
	Field   string
	Value   string
	Reason  string
}

func (e *FieldError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf(
			"Invalid %s '%s' on line %d of %s section: %s.",
			e.Field, e.Value, e.Line, e.Section, e.Reason,
		)
	}
	return fmt.Sprintf(
		"Invalid %s '%s' in %s section: %s.", e.Field, e.Value, e.Section, e.Reason,
	)
}

func (e *FieldError) Unwrap() error { return ErrInvalidField }

// AtomRecord is one line of an Atoms section.
type AtomRecord struct {
	ID       int64
	Type     int32
	Diameter float64
	Density  float64
	Aux      [6]float64
	X        geom.Vec

	HasImage bool
	Image    [3]int
}

// VelRecord is one line of a Velocities section.
type VelRecord struct {
	ID       int64
	V, Omega geom.Vec
}

func atomError(field string, value interface{}, reason string) *FieldError {
	return &FieldError{
		Section: "Atoms", Field: field, Value: fmt.Sprint(value), Reason: reason,
	}
}

// ParseAtom parses the fields of an Atoms line:
//
//     id type diameter density aux1 ... aux6 x y z [ix iy iz]
//
// It only checks syntax; see Validate.
func ParseAtom(fields []string) (*AtomRecord, error) {
	if len(fields) != AtomFields && len(fields) != AtomImageFields {
		return nil, fmt.Errorf(
			"%w: Atoms line has %d fields, expected %d or %d",
			ErrDataFormat, len(fields), AtomFields, AtomImageFields,
		)
	}

	rec := &AtomRecord{}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return nil, atomError("id", fields[0], "not an integer")
	}
	typ, err := strconv.ParseInt(fields[1], 10, 32)
	if err != nil {
		return nil, atomError("type", fields[1], "not an integer")
	}
	rec.ID, rec.Type = id, int32(typ)

	names := [...]string{"diameter", "density"}
	vals := [...]*float64{&rec.Diameter, &rec.Density}
	for k := range vals {
		if *vals[k], err = strconv.ParseFloat(fields[2+k], 64); err != nil {
			return nil, atomError(names[k], fields[2+k], "not a number")
		}
	}
	for k := range rec.Aux {
		if rec.Aux[k], err = strconv.ParseFloat(fields[4+k], 64); err != nil {
			return nil, atomError(auxNames[k], fields[4+k], "not a number")
		}
	}
	for k := 0; k < 3; k++ {
		if rec.X[k], err = strconv.ParseFloat(fields[10+k], 64); err != nil {
			return nil, atomError("xyz"[k:k+1], fields[10+k], "not a number")
		}
	}

	if len(fields) == AtomImageFields {
		rec.HasImage = true
		for k := 0; k < 3; k++ {
			if rec.Image[k], err = strconv.Atoi(fields[13+k]); err != nil {
				return nil, atomError(
					"image_"+"xyz"[k:k+1], fields[13+k], "not an integer",
				)
			}
		}
	}
	return rec, nil
}

// Validate checks rec against the constraints every particle must satisfy
// before it is added to a store with the given number of types.
func (rec *AtomRecord) Validate(types int) error {
	switch {
	case rec.ID <= 0:
		return atomError("id", rec.ID, "must be positive")
	case rec.Type <= 0 || int(rec.Type) > types:
		return atomError(
			"type", rec.Type, fmt.Sprintf("must be in range [1, %d]", types),
		)
	}
	sphere := AtomHybrid{Diameter: rec.Diameter, Density: rec.Density}
	if err := sphere.Validate(); err != nil {
		return err
	}
	for k, a := range rec.Aux {
		if !(a > 0) {
			return atomError(auxNames[k], a, "must be positive")
		}
	}
	if rec.HasImage {
		for k, im := range rec.Image {
			if im < -store.ImgMax || im >= store.ImgMax {
				return atomError(
					"image_"+"xyz"[k:k+1], im,
					fmt.Sprintf("must be in range [%d, %d)", -store.ImgMax, store.ImgMax),
				)
			}
		}
	}
	return nil
}

// AddAtom validates rec and appends it to s. Velocities start at zero. A
// record which fails validation leaves s untouched.
func AddAtom(s *store.Store, rec *AtomRecord) error {
	if err := rec.Validate(s.Types); err != nil {
		return err
	}
	i, err := s.Append()
	if err != nil {
		return err
	}

	s.Tag[i] = rec.ID
	s.Type[i] = rec.Type
	s.Mask[i] = 1
	s.X[i] = rec.X
	s.V[i] = geom.Vec{}
	s.Omega[i] = geom.Vec{}
	if rec.HasImage {
		s.Image[i] = store.EncodeImage(rec.Image[0], rec.Image[1], rec.Image[2])
	} else {
		s.Image[i] = store.CenteredImage()
	}

	setSphere(s, i, rec.Diameter, rec.Density)
	s.CoupleA[i] = geom.Vec{rec.Aux[0], rec.Aux[1], rec.Aux[2]}
	s.CoupleB[i] = geom.Vec{rec.Aux[3], rec.Aux[4], rec.Aux[5]}
	s.Extra[i] = nil

	s.N++
	return nil
}

// ParseVel parses the fields of a Velocities line: id vx vy vz wx wy wz.
func ParseVel(fields []string) (*VelRecord, error) {
	if len(fields) != VelFields {
		return nil, fmt.Errorf(
			"%w: Velocities line has %d fields, expected %d",
			ErrDataFormat, len(fields), VelFields,
		)
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || id <= 0 {
		return nil, &FieldError{
			Section: "Velocities", Field: "id", Value: fields[0],
			Reason: "must be a positive integer",
		}
	}

	rec := &VelRecord{ID: id}
	for k := 0; k < 6; k++ {
		dst := &rec.V[k%3]
		if k >= 3 {
			dst = &rec.Omega[k%3]
		}
		if *dst, err = strconv.ParseFloat(fields[1+k], 64); err != nil {
			return nil, &FieldError{
				Section: "Velocities", Field: fmt.Sprintf("column %d", k+2),
				Value: fields[1+k], Reason: "not a number",
			}
		}
	}
	return rec, nil
}

// SetVelocity copies rec's velocities into slot i.
func SetVelocity(s *store.Store, i int, rec *VelRecord) {
	s.V[i] = rec.V
	s.Omega[i] = rec.Omega
}

// DataHeader holds the header of a data file.
type DataHeader struct {
	Title      string
	Atoms      int64
	AtomTypes  int
	Lo, Hi     geom.Vec
	Triclinic  bool
	XY, XZ, YZ float64

	// TagOffset is added to every id WriteData writes. ReadData leaves it
	// at zero.
	TagOffset int64
}

// ReadData reads a data file into s. Particles are appended after any that
// s already holds and Velocities lines may refer to any of them. If s.Types
// is zero it is set from the header's atom types.
func ReadData(r io.Reader, s *store.Store) (*DataHeader, error) {
	hd := &DataHeader{}
	scan := bufio.NewScanner(r)
	line, section := 0, ""
	first := s.N
	var slots map[int64]int

	for scan.Scan() {
		line++
		text := scan.Text()
		if line == 1 {
			hd.Title = strings.TrimSpace(text)
			continue
		}
		if k := strings.IndexByte(text, '#'); k >= 0 {
			text = text[:k]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "Atoms":
			section, slots = "Atoms", nil
			if s.Types == 0 {
				s.Types = hd.AtomTypes
			}
			continue
		case "Velocities":
			section = "Velocities"
			continue
		}

		switch section {
		case "":
			if err := hd.parseLine(fields); err != nil {
				return hd, fmt.Errorf("line %d: %w", line, err)
			}
		case "Atoms":
			rec, err := ParseAtom(fields)
			if err == nil {
				err = AddAtom(s, rec)
			}
			if err != nil {
				return hd, atLine(err, line)
			}
		case "Velocities":
			rec, err := ParseVel(fields)
			if err != nil {
				return hd, atLine(err, line)
			}
			if slots == nil {
				slots = tagSlots(s)
			}
			i, ok := slots[rec.ID]
			if !ok {
				return hd, &FieldError{
					Section: "Velocities", Line: line, Field: "id",
					Value: fields[0], Reason: "no such atom",
				}
			}
			SetVelocity(s, i, rec)
		}
	}
	if err := scan.Err(); err != nil {
		return hd, err
	}

	if read := int64(s.N - first); hd.Atoms != 0 && read != hd.Atoms {
		return hd, fmt.Errorf(
			"%w: header declares %d atoms, found %d", ErrDataFormat, hd.Atoms, read,
		)
	}
	log.Info().Int("atoms", s.N-first).Str("title", hd.Title).
		Msg("read data file")
	return hd, nil
}

func (hd *DataHeader) parseLine(fields []string) error {
	n := len(fields)
	var err error
	switch {
	case n == 2 && fields[1] == "atoms":
		hd.Atoms, err = strconv.ParseInt(fields[0], 10, 64)
	case n == 3 && fields[1] == "atom" && fields[2] == "types":
		hd.AtomTypes, err = strconv.Atoi(fields[0])
	case n == 4 && fields[3][1:] == "hi" && fields[2] == fields[3][:1]+"lo":
		k := strings.IndexByte("xyz", fields[3][0])
		if k < 0 {
			return fmt.Errorf("%w: unknown header keyword %q", ErrDataFormat, fields[2])
		}
		if hd.Lo[k], err = strconv.ParseFloat(fields[0], 64); err == nil {
			hd.Hi[k], err = strconv.ParseFloat(fields[1], 64)
		}
	case n == 6 && fields[3] == "xy" && fields[4] == "xz" && fields[5] == "yz":
		hd.Triclinic = true
		if hd.XY, err = strconv.ParseFloat(fields[0], 64); err == nil {
			if hd.XZ, err = strconv.ParseFloat(fields[1], 64); err == nil {
				hd.YZ, err = strconv.ParseFloat(fields[2], 64)
			}
		}
	default:
		log.Debug().Strs("fields", fields).Msg("skipping data file header line")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDataFormat, err)
	}
	return nil
}

func atLine(err error, line int) error {
	var fe *FieldError
	if errors.As(err, &fe) {
		fe.Line = line
		return fe
	}
	return fmt.Errorf("line %d: %w", line, err)
}

func tagSlots(s *store.Store) map[int64]int {
	slots := make(map[int64]int, s.N)
	for i := 0; i < s.N; i++ {
		slots[s.Tag[i]] = i
	}
	return slots
}

// WriteData writes the owned particles of s as a data file. The header's
// counts are taken from s; hd supplies the title, the cell and the tag
// offset and may be nil.
func WriteData(w io.Writer, s *store.Store, hd *DataHeader) error {
	if hd == nil {
		hd = &DataHeader{}
	}
	title := hd.Title
	if title == "" {
		title = "gosphere data file"
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n\n", title)
	fmt.Fprintf(bw, "%d atoms\n%d atom types\n\n", s.N, s.Types)
	for k, name := range [3]string{"x", "y", "z"} {
		fmt.Fprintf(bw, "%-1.16e %-1.16e %slo %shi\n", hd.Lo[k], hd.Hi[k], name, name)
	}
	if hd.Triclinic {
		fmt.Fprintf(bw, "%-1.16e %-1.16e %-1.16e xy xz yz\n", hd.XY, hd.XZ, hd.YZ)
	}

	fmt.Fprintf(bw, "\nAtoms\n\n")
	for i := 0; i < s.N; i++ {
		ix, iy, iz := store.DecodeImage(s.Image[i])
		a, b := s.CoupleA[i], s.CoupleB[i]
		fmt.Fprintf(bw,
			"%d %d %-1.16e %-1.16e %-1.16e %-1.16e %-1.16e %d %d %d "+
				"%-1.16e %-1.16e %-1.16e %-1.16e %-1.16e %-1.16e\n",
			s.Tag[i]+hd.TagOffset, s.Type[i], 2*s.Radius[i],
			store.DensityOf(s.Mass[i], s.Radius[i], s.Dimension),
			s.X[i][0], s.X[i][1], s.X[i][2], ix, iy, iz,
			a[0], a[1], a[2], b[0], b[1], b[2],
		)
	}

	fmt.Fprintf(bw, "\nVelocities\n\n")
	for i := 0; i < s.N; i++ {
		v, omega := s.V[i], s.Omega[i]
		fmt.Fprintf(bw, "%d %-1.16e %-1.16e %-1.16e %-1.16e %-1.16e %-1.16e\n",
			s.Tag[i]+hd.TagOffset, v[0], v[1], v[2], omega[0], omega[1], omega[2],
		)
	}
	return bw.Flush()
}
