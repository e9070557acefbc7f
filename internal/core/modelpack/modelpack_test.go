package modelpack

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"langid/internal/core/model"
	"langid/internal/core/script"
)

const tinyManifest = `
name = "tiny"

[compile]
scale = 1.0

[[features]]
kind = "ngram"
order = 2
buckets = 256
weight = 1.0

[[features]]
kind = "ngram"
order = 3
buckets = 512
weight = 1.5

[[features]]
kind = "script"
weight = 1.0

[[languages]]
code = "en"
scripts = ["Latin"]
corpus = "en.txt"

[[languages]]
code = "fr"
scripts = ["Latin"]
corpus = "fr.txt"

[[languages]]
code = "ru"
scripts = ["Cyrillic"]
corpus = "ru.txt"
`

func tinyFS() fstest.MapFS {
	return fstest.MapFS{
		"en.txt": {Data: []byte("the quick brown fox jumps over the lazy dog and the cat sat on the mat")},
		"fr.txt": {Data: []byte("le renard brun saute par dessus le chien paresseux et le chat est sur le tapis")},
		"ru.txt": {Data: []byte("быстрая коричневая лиса прыгает через ленивую собаку")},
	}
}

func TestParseManifest_Defaults(t *testing.T) {
	m, err := ParseManifest([]byte(tinyManifest))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	want := DefaultParams()
	want.Scale = 1
	if m.Compile != want {
		t.Fatalf("compile = %+v, want %+v", m.Compile, want)
	}
	if !reflect.DeepEqual(m.Tuning, model.DefaultTuning()) {
		t.Fatalf("tuning = %+v", m.Tuning)
	}
	specs := m.specs()
	if specs[2].Buckets != script.Count {
		t.Fatalf("script buckets = %d, want %d", specs[2].Buckets, script.Count)
	}
}

func TestParseManifest_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown key", tinyManifest + "\ncolour = \"red\"\n", "unknown manifest keys"},
		{"bad toml", "name = ", "parse manifest"},
		{"no name", strings.Replace(tinyManifest, `name = "tiny"`, "", 1), "needs a name"},
		{"smoothing", strings.Replace(tinyManifest, "scale = 1.0", "smoothing = 0.0", 1), "smoothing"},
		{"duplicate", tinyManifest + "\n[[languages]]\ncode = \"en\"\nscripts = [\"Latin\"]\ncorpus = \"x.txt\"\n", "duplicate language"},
		{"und code", tinyManifest + "\n[[languages]]\ncode = \"und\"\nscripts = [\"Latin\"]\ncorpus = \"x.txt\"\n", "invalid language code"},
		{"bad script", tinyManifest + "\n[[languages]]\ncode = \"xx\"\nscripts = [\"Common\"]\ncorpus = \"x.txt\"\n", "unusable script"},
		{"override", tinyManifest + "\n[tuning.reliability_overrides]\nzz = 0.9\n", "unknown language"},
		{"zero weight", strings.Replace(tinyManifest, "weight = 1.5", "weight = 0.0", 1), "positive weight"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tc.doc))
			if err == nil {
				t.Fatalf("expected error containing %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestLoadManifest_Dir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.toml")
	if err := os.WriteFile(path, []byte(tinyManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	m, got, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if got != dir || m.Name != "tiny" {
		t.Fatalf("dir = %q name = %q", got, m.Name)
	}
	if _, _, err := LoadManifest(filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatalf("missing manifest accepted")
	}
}

func compileTiny(t *testing.T) (*model.Model, []LangStats) {
	t.Helper()
	man, err := ParseManifest([]byte(tinyManifest))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	m, stats, err := Compile(context.Background(), man, tinyFS())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return m, stats
}

func TestCompile_Layout(t *testing.T) {
	m, stats := compileTiny(t)

	if !reflect.DeepEqual(m.Classes, []string{model.Unknown, "en", "fr", "ru"}) {
		t.Fatalf("classes = %v", m.Classes)
	}
	if len(m.Tables) != 3 || m.Tables[0].Rows != 256 || m.Tables[1].Rows != 512 || m.Tables[2].Rows != script.Count {
		t.Fatalf("tables = %d", len(m.Tables))
	}
	for _, tb := range m.Tables {
		if tb.Dim != len(m.Classes) {
			t.Fatalf("table dim = %d", tb.Dim)
		}
	}

	p := DefaultParams()
	out := m.Layers[len(m.Layers)-1]
	if got, want := out.Bias[0], float32(1*(p.Shift+p.UnknownLift)); got != want {
		t.Fatalf("und bias = %v, want %v", got, want)
	}

	// the script table penalizes ru on Latin and en on Cyrillic
	sc := m.Tables[2]
	if sc.Row(int(script.Latin))[3] != float32(-p.ScriptPenalty) || sc.Row(int(script.Latin))[1] != 0 {
		t.Fatalf("latin row = %v", sc.Row(int(script.Latin)))
	}
	if sc.Row(int(script.Cyrillic))[1] != float32(-p.ScriptPenalty) || sc.Row(int(script.Cyrillic))[3] != 0 {
		t.Fatalf("cyrillic row = %v", sc.Row(int(script.Cyrillic)))
	}

	if len(stats) != 3 || stats[0].Code != "en" || stats[0].Tokens != 16 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats[0].NGrams[2] != 0 || stats[0].NGrams[0] == 0 {
		t.Fatalf("ngram totals = %v", stats[0].NGrams)
	}
	if m.ID == "" {
		t.Fatalf("compiled model has no id")
	}
}

func TestCompile_Deterministic(t *testing.T) {
	a, _ := compileTiny(t)
	b, _ := compileTiny(t)
	if a.ID != b.ID {
		t.Fatalf("ids differ: %s vs %s", a.ID, b.ID)
	}
	ab, err := model.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	bb, err := model.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	if string(ab) != string(bb) {
		t.Fatalf("encodings differ")
	}
}

func TestCompile_ScoresOwnCorpus(t *testing.T) {
	m, _ := compileTiny(t)
	net, err := m.Network()
	if err != nil {
		t.Fatal(err)
	}
	ex, err := m.Extractor()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		text string
		sc   script.ID
		want int
	}{
		{"the quick brown fox", script.Latin, 1},
		{"le chat est sur le tapis", script.Latin, 2},
		{"ленивую собаку", script.Cyrillic, 3},
	}
	for _, tc := range tests {
		logits, err := net.Infer(ex.Extract([]byte(tc.text), tc.sc))
		if err != nil {
			t.Fatalf("Infer: %v", err)
		}
		best := 0
		for i, v := range logits {
			if v > logits[best] {
				best = i
			}
		}
		if best != tc.want {
			t.Fatalf("%q scored %v, want class %d", tc.text, logits, tc.want)
		}
	}
}

func TestCompile_CorpusErrors(t *testing.T) {
	man, err := ParseManifest([]byte(tinyManifest))
	if err != nil {
		t.Fatal(err)
	}

	missing := tinyFS()
	delete(missing, "fr.txt")
	if _, _, err := Compile(context.Background(), man, missing); err == nil || !strings.Contains(err.Error(), "fr corpus") {
		t.Fatalf("missing corpus err = %v", err)
	}

	empty := tinyFS()
	empty["ru.txt"] = &fstest.MapFile{Data: []byte("123 456 !!!")}
	if _, _, err := Compile(context.Background(), man, empty); err == nil || !strings.Contains(err.Error(), "no letters") {
		t.Fatalf("empty corpus err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Compile(ctx, man, tinyFS()); err == nil {
		t.Fatalf("canceled compile succeeded")
	}
}

func TestCompileEmbedded(t *testing.T) {
	m, err := CompileEmbedded(context.Background())
	if err != nil {
		t.Fatalf("CompileEmbedded: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if m.Name != "langid-seed" || len(m.Languages()) != 17 {
		t.Fatalf("name = %q languages = %v", m.Name, m.Languages())
	}
}
