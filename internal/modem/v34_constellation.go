package modem

/*------------------------------------------------------------------
 *
 * Purpose:	V.34 constellation construction and shell mapping
 *		(spec.md §4.8.2, §4.8.3, C9). Points are integer
 *		(4x+1, 4y+1) on the grid |k|<=11 (spec.md §3.3), sorted
 *		by energy; shell mapping distributes 4 ring pairs per
 *		4D symbol to minimize average energy (spec.md's "shell
 *		mapping" glossary entry).
 *
 *		Grounded on original_source/v34.c's constellation
 *		construction (sort-by-energy, quadrant rotation table),
 *		re-expressed without the C-style global mutable tables:
 *		this package builds them once and shares them via a
 *		read-only struct.
 *
 *		Shell mapping (index_to_rings / rings_to_index) builds the
 *		g2/g4/g8/z8 convolution tables spec.md §4.8.3 specifies
 *		(g2 clamped-triangle, g4=g2⊛g2, g8=g4⊛g4, z8 the prefix sum
 *		of g8) and performs the nested base-g divisions with the
 *		m-1-complement branch, grounded directly on
 *		original_source/v34.c's build_rings/index_to_rings/
 *		rings_to_index.
 *
 *------------------------------------------------------------------*/

import "sort"

const (
	cMin = -11
	cMax = 11
)

type latticePoint struct {
	X, Y int
}

// Constellation holds the rotation-complete point table and its
// inverse lookup for one constellation size L (spec.md §4.8.2).
type Constellation struct {
	L      int
	Points []latticePoint // index -> (x,y) in quadrant 1, before rotation
	toCode map[[2]int]int // (x,y) in quadrant-1 coords -> point index
}

// BuildConstellation constructs the quadrant-1 constellation of size
// L/4 (sorted by x^2+y^2, ties broken by higher y first) and its
// inverse lookup, for a constellation of total size L.
func BuildConstellation(l int) *Constellation {
	var all []latticePoint
	for x := cMin; x <= cMax; x++ {
		for y := cMin; y <= cMax; y++ {
			all = append(all, latticePoint{4*x + 1, 4*y + 1})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		ei := all[i].X*all[i].X + all[i].Y*all[i].Y
		ej := all[j].X*all[j].X + all[j].Y*all[j].Y
		if ei != ej {
			return ei < ej
		}
		return all[i].Y > all[j].Y
	})

	quarter := l / 4
	if quarter > len(all) {
		quarter = len(all)
	}
	pts := all[:quarter]

	c := &Constellation{L: l, Points: pts, toCode: make(map[[2]int]int, quarter)}
	for i, p := range pts {
		c.toCode[[2]int{p.X, p.Y}] = i
	}
	return c
}

// rotateCW rotates a quadrant-1 point clockwise by quadrant z in
// {0,1,2,3} per the rule in spec.md §4.8.2: Z=0:(x,y), 1:(-y,x),
// 2:(-x,-y), 3:(y,-x).
func rotateCW(p latticePoint, z int) latticePoint {
	switch z & 3 {
	case 0:
		return p
	case 1:
		return latticePoint{-p.Y, p.X}
	case 2:
		return latticePoint{-p.X, -p.Y}
	default:
		return latticePoint{p.Y, -p.X}
	}
}

// Point returns the rotated point for a quadrant-1 index and quadrant.
func (c *Constellation) Point(index, quadrant int) latticePoint {
	if index < 0 || index >= len(c.Points) {
		return latticePoint{}
	}
	return rotateCW(c.Points[index], quadrant)
}

// Code performs the inverse lookup: given a received (possibly
// unrotated) quadrant-1 point, return its index and true, or 0 and
// false if not in the table (spec.md §4.8.2 constellation_to_code).
func (c *Constellation) Code(x, y int) (index int, ok bool) {
	v, ok := c.toCode[[2]int{x, y}]
	return v, ok
}

// --- Shell mapping (spec.md §4.8.3) ---

// ShellTables holds the ring count M and the g2/g4/g8/z8 convolution
// tables (spec.md §4.8.3) used to map a shell index to 4 ring pairs
// and back.
type ShellTables struct {
	M int

	g2Tab []int
	g4Tab []int
	g8Tab []int
	z8Tab []int
}

// g2 is the clamped triangular kernel g2(p,m) = m - |p-(m-1)|, zero
// outside [0, 2(m-1)].
func g2(p, m int) int {
	if p < 0 || p > 2*(m-1) {
		return 0
	}
	d := p - (m - 1)
	if d < 0 {
		d = -d
	}
	return m - d
}

// BuildShellTables precomputes g2/g4/g8/z8 for ring count m (spec.md
// §4.8.3: g4 = g2⊛g2, g8 = g4⊛g4, z8 the prefix sum of g8).
func BuildShellTables(m int) *ShellTables {
	if m < 1 {
		m = 1
	}
	n := 8*(m-1) + 1

	s := &ShellTables{M: m}
	s.g2Tab = make([]int, n)
	for i := 0; i < n; i++ {
		s.g2Tab[i] = g2(i, m)
	}
	s.g4Tab = make([]int, n)
	for p := 0; p < n; p++ {
		if p > 4*(m-1) {
			continue
		}
		sum := 0
		for i := 0; i <= p; i++ {
			sum += s.g2Tab[i] * s.g2Tab[p-i]
		}
		s.g4Tab[p] = sum
	}
	s.g8Tab = make([]int, n)
	for p := 0; p < n; p++ {
		if p > 8*(m-1) {
			continue
		}
		sum := 0
		for i := 0; i <= p; i++ {
			sum += s.g4Tab[i] * s.g4Tab[p-i]
		}
		s.g8Tab[p] = sum
	}
	s.z8Tab = make([]int, n)
	for i := 1; i < n; i++ {
		s.z8Tab[i] = s.z8Tab[i-1] + s.g8Tab[i-1]
	}
	return s
}

// RingPair is one (m0, m1) magnitude pair feeding a 2D symbol.
type RingPair struct {
	M0, M1 int
}

// IndexToRings turns a shell index r0 into 4 ring pairs via the nested
// base-g divisions of spec.md §4.8.3, with the m-1-complement branch
// applied whenever a partial sum reaches or exceeds M.
func (s *ShellTables) IndexToRings(r0 int) [4]RingPair {
	m := s.M

	a := -1
	r1 := 0
	for {
		tmp := r0 - s.z8Tab[a+1]
		if tmp < 0 {
			break
		}
		r1 = tmp
		a++
	}

	b := 0
	for {
		tmp := r1 - s.g4Tab[b]*s.g4Tab[a-b]
		if tmp < 0 {
			break
		}
		r1 = tmp
		b++
	}

	g4b := s.g4Tab[b]
	r2 := r1 % g4b
	r3 := (r1 - r2) / g4b

	c := 0
	r4 := r2
	for {
		tmp := r4 - s.g2Tab[c]*s.g2Tab[b-c]
		if tmp < 0 {
			break
		}
		r4 = tmp
		c++
	}

	d := 0
	r5 := r3
	for {
		tmp := r5 - s.g2Tab[d]*s.g2Tab[a-b-d]
		if tmp < 0 {
			break
		}
		r5 = tmp
		d++
	}

	g2c := s.g2Tab[c]
	e := r4 % g2c
	f := (r4 - e) / g2c

	g2d := s.g2Tab[d]
	gg := r5 % g2d
	h := (r5 - gg) / g2d

	var rings [4]RingPair
	if c < m {
		rings[0].M0 = e
		rings[0].M1 = c - rings[0].M0
	} else {
		rings[0].M1 = m - 1 - e
		rings[0].M0 = c - rings[0].M1
	}
	if (b - c) < m {
		rings[1].M0 = f
		rings[1].M1 = b - c - rings[1].M0
	} else {
		rings[1].M1 = m - 1 - f
		rings[1].M0 = b - c - rings[1].M1
	}
	if d < m {
		rings[2].M0 = gg
		rings[2].M1 = d - rings[2].M0
	} else {
		rings[2].M1 = m - 1 - gg
		rings[2].M0 = d - rings[2].M1
	}
	if (a - b - d) < m {
		rings[3].M0 = h
		rings[3].M1 = a - b - d - rings[3].M0
	} else {
		rings[3].M1 = m - 1 - h
		rings[3].M0 = a - b - d - rings[3].M1
	}
	return rings
}

// RingsToIndex is the exact inverse of IndexToRings (IF-3), grounded
// on original_source/v34.c's rings_to_index.
func (s *ShellTables) RingsToIndex(rings [4]RingPair) int {
	m := s.M

	c := rings[0].M0 + rings[0].M1
	var e int
	if c < m {
		e = rings[0].M0
	} else {
		e = m - 1 - rings[0].M1
	}

	b := rings[1].M0 + rings[1].M1
	var f int
	if b < m {
		f = rings[1].M0
	} else {
		f = m - 1 - rings[1].M1
	}
	b += c

	d := rings[2].M0 + rings[2].M1
	var g int
	if d < m {
		g = rings[2].M0
	} else {
		g = m - 1 - rings[2].M1
	}

	a := rings[3].M0 + rings[3].M1
	var h int
	if a < m {
		h = rings[3].M0
	} else {
		h = m - 1 - rings[3].M1
	}
	a += b + d

	r5 := h*s.g2Tab[d] + g
	r4 := f*s.g2Tab[c] + e

	r3 := r5
	for i := 0; i < d; i++ {
		r3 += s.g2Tab[i] * s.g2Tab[a-b-i]
	}

	r2 := r4
	for i := 0; i < c; i++ {
		r2 += s.g2Tab[i] * s.g2Tab[b-i]
	}

	r1 := r3*s.g4Tab[b] + r2
	for i := 0; i < b; i++ {
		r1 += s.g4Tab[i] * s.g4Tab[a-i]
	}

	return r1 + s.z8Tab[a]
}
