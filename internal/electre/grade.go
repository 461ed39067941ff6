package electre

import "strings"

// Grade is a legacy or composite letter grade, A (best) to E (worst).
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
)

// Grades lists the grade alphabet best to worst.
var Grades = []Grade{GradeA, GradeB, GradeC, GradeD, GradeE}

// ParseGrade accepts a letter in either case.
func ParseGrade(s string) (Grade, error) {
	g := Grade(strings.ToUpper(strings.TrimSpace(s)))
	if g.Rank() == 0 {
		return "", validationErr("grade", "unknown grade %q", s)
	}
	return g, nil
}

// Rank returns 1 for A through 5 for E, or 0 for an invalid grade.
func (g Grade) Rank() int {
	for i, v := range Grades {
		if g == v {
			return i + 1
		}
	}
	return 0
}

// Valid reports whether g belongs to the alphabet.
func (g Grade) Valid() bool { return g.Rank() != 0 }

// GradeFromRank maps 1..5 back to A..E. Out-of-range ranks are clamped.
func GradeFromRank(r int) Grade {
	return Grades[clampRank(r)-1]
}

// Class is an ELECTRE TRI category, A' (best) to E' (worst).
type Class string

const (
	ClassA Class = "A'"
	ClassB Class = "B'"
	ClassC Class = "C'"
	ClassD Class = "D'"
	ClassE Class = "E'"
)

// Classes lists the category alphabet best to worst.
var Classes = []Class{ClassA, ClassB, ClassC, ClassD, ClassE}

// ParseClass accepts "B'" as well as a bare letter "B".
func ParseClass(s string) (Class, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasSuffix(v, "'") {
		v += "'"
	}
	c := Class(v)
	if c.Rank() == 0 {
		return "", validationErr("class", "unknown class %q", s)
	}
	return c, nil
}

// Rank returns 1 for A' through 5 for E', or 0 for an invalid class.
func (c Class) Rank() int {
	for i, v := range Classes {
		if c == v {
			return i + 1
		}
	}
	return 0
}

// Valid reports whether c belongs to the alphabet.
func (c Class) Valid() bool { return c.Rank() != 0 }

// Better reports whether c is strictly better than other.
func (c Class) Better(other Class) bool { return c.Rank() < other.Rank() }

// Letter drops the prime, so classes can be compared against grades.
func (c Class) Letter() Grade {
	if !c.Valid() {
		return ""
	}
	return Grade(strings.TrimSuffix(string(c), "'"))
}

// ClassFromRank maps 1..5 back to A'..E'. Out-of-range ranks are clamped.
func ClassFromRank(r int) Class {
	return Classes[clampRank(r)-1]
}

func clampRank(r int) int {
	if r < 1 {
		return 1
	}
	if r > len(Grades) {
		return len(Grades)
	}
	return r
}

func (c Class) String() string { return string(c) }

func (g Grade) String() string { return string(g) }
