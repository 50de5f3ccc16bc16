package reference_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/hscells/ecn/reference"
)

func TestSet(t *testing.T) {
	s := reference.NewSet("c", "a", "b", "a")
	if !reflect.DeepEqual(s, reference.Set{"a", "b", "c"}) {
		t.Fatalf("unexpected set %v", s)
	}
	if !s.Contains("b") || s.Contains("d") {
		t.Fatal("membership is wrong")
	}
	o := reference.NewSet("b", "c", "d")
	if got := s.Inter(o); !reflect.DeepEqual(got, reference.Set{"b", "c"}) {
		t.Fatalf("unexpected intersection %v", got)
	}
	if got := s.Diff(o); !reflect.DeepEqual(got, reference.Set{"a"}) {
		t.Fatalf("unexpected difference %v", got)
	}
	if !reflect.DeepEqual(s, reference.Set{"a", "b", "c"}) {
		t.Fatalf("set operations must not modify their operands, got %v", s)
	}
}

func TestReadTable(t *testing.T) {
	tab, err := reference.ReadTable(strings.NewReader("Q1\tBarack Obama\nbad line\nQ2\ta\tb\nQ3\tWeather\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(tab) != 2 || tab["Q1"] != "Barack Obama" || tab["Q3"] != "Weather" {
		t.Fatalf("unexpected table %v", tab)
	}
}

func TestReadPassageLists(t *testing.T) {
	in := "E1\t{\"paragraphs\":[\"P1\",\"P2\"],\"other\":1}\nE2\t[\"P3\"]\nE3\tnot json\nE4\t{\"paragraphs\":[]}\n"
	lists, err := reference.ReadPassageLists(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(lists["E1"], []string{"P1", "P2"}) {
		t.Fatalf("unexpected E1 %v", lists["E1"])
	}
	if !reflect.DeepEqual(lists["E2"], []string{"P3"}) {
		t.Fatalf("unexpected E2 %v", lists["E2"])
	}
	if _, ok := lists["E3"]; ok {
		t.Fatal("malformed list must be skipped")
	}
	if l, ok := lists["E4"]; !ok || len(l) != 0 {
		t.Fatalf("expected an empty E4 list, got %v", l)
	}
}

func TestReadRun(t *testing.T) {
	in := `Q1 Q0 E2 1 3.5 run
Q1 Q0 E1 2 2.0 run
Q2 Q0 E9 1 1.0 run
Q1 Q0 E3 3 1.5 run
`
	run, err := reference.ReadRun(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(run["Q1"].IDs, []string{"E2", "E1", "E3"}) {
		t.Fatalf("file order must be kept, got %v", run["Q1"].IDs)
	}
	if s, ok := run["Q1"].Score("E1"); !ok || s != 2 {
		t.Fatalf("unexpected score %v", s)
	}
	if _, ok := run["Q3"].Score("E1"); ok {
		t.Fatal("unknown topics have no scores")
	}
	if !reflect.DeepEqual(run["Q1"].Top(2), []string{"E2", "E1"}) {
		t.Fatalf("unexpected top %v", run["Q1"].Top(2))
	}
	if !reflect.DeepEqual(run.Topics(), reference.Set{"Q1", "Q2"}) {
		t.Fatalf("unexpected topics %v", run.Topics())
	}
}

func TestReadEntities(t *testing.T) {
	e, err := reference.ReadEntities(strings.NewReader("Q1 0 E1\nQ1 0 E2 1\nQ2 0 E3\nshort line\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(e["Q1"], reference.Set{"E1", "E2"}) || !reflect.DeepEqual(e["Q2"], reference.Set{"E3"}) {
		t.Fatalf("unexpected entities %v", e)
	}
}
