package format

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stahnma/gh-repofeed/internal/github"
	"gopkg.in/yaml.v3"
)

func TestWriteJSON_Normal(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]int{"stars": 42}

	if err := WriteJSON(&buf, data, false); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, `"stars": 42`) {
		t.Errorf("expected JSON with stars, got:\n%s", out)
	}
	if strings.Contains(out, "```") {
		t.Error("normal mode should not have backticks")
	}
}

func TestWriteJSON_SlackMode(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]int{"stars": 42}

	if err := WriteJSON(&buf, data, true); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "```\n") {
		t.Errorf("slack mode should start with ```, got:\n%s", out)
	}
	if !strings.HasSuffix(out, "```\n") {
		t.Errorf("slack mode should end with ```, got:\n%s", out)
	}
	if !strings.Contains(out, `"stars": 42`) {
		t.Errorf("expected JSON content, got:\n%s", out)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, map[string]int{"stars": 42}, false); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "stars: 42\n" {
		t.Errorf("got %q, want %q", got, "stars: 42\n")
	}
}

func TestStars(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.000"},
		{65432, "65.432"},
		{9999999, "9.999.999"},
	}
	for _, tt := range tests {
		if got := Stars(tt.n); got != tt.want {
			t.Errorf("Stars(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func testRepos() []github.Repository {
	return []github.Repository{
		{Name: "Alamofire", FullName: "Alamofire/Alamofire", Stars: 41000, Owner: github.Owner{Login: "Alamofire", AvatarURL: "https://avatars.example.com/u/1"}},
		{Name: "vapor", FullName: "vapor/vapor", Stars: 24500, Owner: github.Owner{Login: "vapor"}},
	}
}

func TestNewExport(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	exp := NewExport("swift", 1, testRepos(), now)

	if exp.Language != "swift" || exp.Pages != 1 {
		t.Errorf("header = %+v", exp)
	}
	if !exp.GeneratedAt.Equal(now) || exp.GeneratedAt.Location() != time.UTC {
		t.Errorf("GeneratedAt = %v, want %v in UTC", exp.GeneratedAt, now)
	}
	if len(exp.Repositories) != 2 {
		t.Fatalf("got %d repositories, want 2", len(exp.Repositories))
	}
	first := exp.Repositories[0]
	if first.Rank != 1 || first.Owner != "Alamofire" || first.Stars != 41000 || first.AvatarURL == "" {
		t.Errorf("first = %+v", first)
	}
	if exp.Repositories[1].Rank != 2 {
		t.Errorf("second rank = %d, want 2", exp.Repositories[1].Rank)
	}
}

func TestExport_YAML(t *testing.T) {
	var buf bytes.Buffer
	exp := NewExport("swift", 1, testRepos(), time.Unix(0, 0))
	if err := WriteYAML(&buf, exp, false); err != nil {
		t.Fatal(err)
	}

	var decoded Export
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, buf.String())
	}
	if len(decoded.Repositories) != 2 || decoded.Repositories[1].FullName != "vapor/vapor" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteRepos(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRepos(&buf, testRepos(), 30, false); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[0]), "31. Alamofire/Alamofire") || !strings.HasSuffix(lines[0], "41.000") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[1]), "32. vapor/vapor") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestWriteRepos_SlackMode(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRepos(&buf, testRepos(), 0, true); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "```\n") || !strings.HasSuffix(out, "```\n") {
		t.Errorf("slack mode should wrap output in backticks, got:\n%s", out)
	}
}

func TestNewExport_MalformedAvatar(t *testing.T) {
	repos := []github.Repository{{Name: "x", FullName: "o/x", Owner: github.Owner{Login: "o", AvatarURL: "://not a url"}}}
	exp := NewExport("swift", 1, repos, time.Unix(0, 0))
	if got := exp.Repositories[0].AvatarURL; got != "" {
		t.Errorf("AvatarURL = %q, want empty", got)
	}
}
