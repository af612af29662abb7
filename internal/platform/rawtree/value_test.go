package rawtree

import "testing"

func TestDecodeAndCoerce(t *testing.T) {
	root, err := Decode([]byte(`{"id": 4193843, "rating": "7.8", "name": "Saka", "penalty": true, "subs": [1, 2]}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if id, ok := root.Key("id").Int64(); !ok || id != 4193843 {
		t.Fatalf("expected id 4193843, got %d ok=%v", id, ok)
	}
	if rating, ok := root.Key("rating").Float64(); !ok || rating != 7.8 {
		t.Fatalf("expected numeric-string coercion to 7.8, got %v ok=%v", rating, ok)
	}
	if name, ok := root.Key("name").String(); !ok || name != "Saka" {
		t.Fatalf("expected name Saka, got %q", name)
	}
	if flag, ok := root.Key("penalty").Bool(); !ok || !flag {
		t.Fatal("expected penalty=true")
	}
	if got := root.Key("subs").Len(); got != 2 {
		t.Fatalf("expected 2 subs, got %d", got)
	}
	if second, ok := root.Key("subs").Index(1).Int64(); !ok || second != 2 {
		t.Fatalf("expected subs[1]=2, got %d", second)
	}
}

func TestAbsentStaysAbsent(t *testing.T) {
	root, _ := Decode([]byte(`{"a": {"b": null}}`))

	missing := root.Key("a").Key("missing").Key("deeper").Index(3)
	if !missing.IsAbsent() {
		t.Fatal("chained lookups on absent values must stay absent")
	}
	if !root.Key("a").Key("b").IsAbsent() {
		t.Fatal("null nodes count as absent")
	}
	if _, ok := missing.Float64(); ok {
		t.Fatal("absent must not coerce to a number")
	}
}

func TestFirstAlias(t *testing.T) {
	root, _ := Decode([]byte(`{"minsPlayed": 67}`))

	got, ok := root.First("minutesPlayed", "minsPlayed", "minutes").Int64()
	if !ok || got != 67 {
		t.Fatalf("expected alias lookup to find 67, got %d ok=%v", got, ok)
	}
}

func TestInt64RejectsFractions(t *testing.T) {
	root, _ := Decode([]byte(`{"rating": 7.31}`))

	if _, ok := root.Key("rating").Int64(); ok {
		t.Fatal("fractional values must not coerce to int64")
	}
}
