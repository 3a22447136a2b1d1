package fieldtable

import "testing"

func TestAppendAssignsSequentialIDs(t *testing.T) {
	t.Parallel()

	tbl := New()
	for i := 0; i < 3; i++ {
		id := tbl.Append("u", FileOffset{Offset: uint64(i) * 16, Checksum: "aa"})
		if id != i {
			t.Fatalf("Append() id = %d, want %d", id, i)
		}
	}

	ot, ok := tbl.Lookup("u")
	if !ok {
		t.Fatal("Lookup() ok = false, want true")
	}
	if len(ot) != 3 {
		t.Fatalf("len = %d, want 3", len(ot))
	}
	if ot[2].Offset != 32 {
		t.Fatalf("ot[2].Offset = %d, want 32", ot[2].Offset)
	}
}

func TestLookupUnknown(t *testing.T) {
	t.Parallel()

	tbl := New()
	if _, ok := tbl.Lookup("missing"); ok {
		t.Fatal("Lookup() ok = true, want false")
	}
}

func TestReplaceBounds(t *testing.T) {
	t.Parallel()

	tbl := New()
	tbl.Append("u", FileOffset{Offset: 0, Checksum: "aa"})

	if !tbl.Replace("u", 0, FileOffset{Offset: 0, Checksum: "bb"}) {
		t.Fatal("Replace(0) = false, want true")
	}
	ot, _ := tbl.Lookup("u")
	if ot[0].Checksum != "bb" {
		t.Fatalf("checksum = %q, want %q", ot[0].Checksum, "bb")
	}

	if tbl.Replace("u", 1, FileOffset{}) {
		t.Fatal("Replace(1) = true, want false")
	}
	if tbl.Replace("v", 0, FileOffset{}) {
		t.Fatal("Replace(v) = true, want false")
	}
}

func TestNamesSorted(t *testing.T) {
	t.Parallel()

	tbl := New()
	tbl.Append("w", FileOffset{})
	tbl.Append("u", FileOffset{})
	tbl.Append("v", FileOffset{})

	names := tbl.Names()
	want := []string{"u", "v", "w"}
	if len(names) != len(want) {
		t.Fatalf("Names() len = %d, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
