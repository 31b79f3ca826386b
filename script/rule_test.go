package script

import "testing"

const conwayScript = `
if alive {
	next = neighbors == 2 || neighbors == 3
} else {
	next = neighbors == 3
}
`

func conway(alive bool, neighbors int) bool {
	if alive {
		return neighbors == 2 || neighbors == 3
	}
	return neighbors == 3
}

func TestCellRuleMatchesConway(t *testing.T) {
	rule, err := CompileCellRule(conwayScript)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	for _, alive := range []bool{false, true} {
		for neighbors := 0; neighbors <= 8; neighbors++ {
			got, err := rule.Next(alive, neighbors)
			if err != nil {
				t.Fatalf("alive=%v neighbors=%d: %v", alive, neighbors, err)
			}
			if want := conway(alive, neighbors); got != want {
				t.Errorf("alive=%v neighbors=%d: got %v, want %v", alive, neighbors, got, want)
			}
		}
	}
}

func TestCellRuleClone(t *testing.T) {
	rule, err := CompileCellRule(conwayScript)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	clone := rule.Clone()
	got, err := clone.Next(false, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Error("clone evaluated dead cell with 3 neighbors as dead")
	}
}

func TestCompileCellRuleErrors(t *testing.T) {
	if _, err := CompileCellRule(""); err == nil {
		t.Error("empty source should fail")
	}
	if _, err := CompileCellRule("next = = ="); err == nil {
		t.Error("invalid syntax should fail")
	}
}

func TestElementaryScriptRule90(t *testing.T) {
	rule, err := CompileRowRule(ElementaryScript(90))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	// Rule 90 is the xor of the side neighbors.
	for pattern := 0; pattern < 8; pattern++ {
		left := pattern&4 != 0
		center := pattern&2 != 0
		right := pattern&1 != 0
		got, err := rule.Next(left, center, right)
		if err != nil {
			t.Fatalf("pattern=%d: %v", pattern, err)
		}
		if want := left != right; got != want {
			t.Errorf("pattern=%03b: got %v, want %v", pattern, got, want)
		}
	}
}

func TestElementaryScriptRule110(t *testing.T) {
	rule, err := CompileRowRule(ElementaryScript(110))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	want := map[int]bool{
		0b000: false,
		0b001: true,
		0b010: true,
		0b011: true,
		0b100: false,
		0b101: true,
		0b110: true,
		0b111: false,
	}
	for pattern, w := range want {
		got, err := rule.Next(pattern&4 != 0, pattern&2 != 0, pattern&1 != 0)
		if err != nil {
			t.Fatalf("pattern=%d: %v", pattern, err)
		}
		if got != w {
			t.Errorf("pattern=%03b: got %v, want %v", pattern, got, w)
		}
	}
}
