package generate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// scriptLineLimit caps how much of each script is sent to the model.
const scriptLineLimit = 100

var (
	frontmatterRe = regexp.MustCompile(`(?s)^---\n(.*?)\n---`)
	skillNameRe   = regexp.MustCompile(`(?m)^name:\s*(.+)$`)
)

// Collector gathers the content of a skill directory (SKILL.md, references/
// and scripts/) into a single prompt-friendly document.
type Collector struct {
	SkillPath string
}

// NewCollector resolves skillPath to an absolute path.
func NewCollector(skillPath string) (*Collector, error) {
	abs, err := filepath.Abs(skillPath)
	if err != nil {
		return nil, fmt.Errorf("resolving skill path: %w", err)
	}
	return &Collector{SkillPath: abs}, nil
}

func (c *Collector) skillMDPath() string {
	return filepath.Join(c.SkillPath, "SKILL.md")
}

// Validate checks that the skill has a SKILL.md whose frontmatter declares a
// name and a description.
func (c *Collector) Validate() error {
	if _, err := os.Stat(c.SkillPath); err != nil {
		return fmt.Errorf("Skill path not found: %s", c.SkillPath)
	}

	content, err := os.ReadFile(c.skillMDPath())
	if err != nil {
		return fmt.Errorf("SKILL.md not found in %s", c.SkillPath)
	}

	if !bytes.HasPrefix(content, []byte("---")) {
		return fmt.Errorf("SKILL.md missing YAML frontmatter")
	}

	if !frontmatterRe.Match(content) {
		return fmt.Errorf("Invalid YAML frontmatter format")
	}

	fm, err := parseFrontmatter(content)
	if err != nil {
		return fmt.Errorf("Invalid YAML frontmatter format: %w", err)
	}
	if _, ok := fm["name"]; !ok {
		return fmt.Errorf("Missing 'name' in frontmatter")
	}
	if _, ok := fm["description"]; !ok {
		return fmt.Errorf("Missing 'description' in frontmatter")
	}
	return nil
}

// Frontmatter returns the decoded SKILL.md frontmatter.
func (c *Collector) Frontmatter() (map[string]any, error) {
	content, err := os.ReadFile(c.skillMDPath())
	if err != nil {
		return nil, err
	}
	return parseFrontmatter(content)
}

func parseFrontmatter(content []byte) (map[string]any, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, fmt.Errorf("failed to parse markdown: %w", err)
	}

	fm, err := meta.TryGet(pctx)
	if err != nil {
		return nil, err
	}
	if fm == nil {
		return nil, fmt.Errorf("missing frontmatter")
	}
	return fm, nil
}

// SkillName returns the first `name:` line of SKILL.md, or "" when the file
// has none.
func (c *Collector) SkillName() string {
	content, err := os.ReadFile(c.skillMDPath())
	if err != nil {
		return ""
	}
	m := skillNameRe.FindSubmatch(content)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(string(m[1]))
}

// SkillMD returns the raw SKILL.md text.
func (c *Collector) SkillMD() (string, error) {
	content, err := os.ReadFile(c.skillMDPath())
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// NamedText is a file's base name and its contents.
type NamedText struct {
	Name string
	Text string
}

// References returns references/*.md sorted by file name.
func (c *Collector) References() ([]NamedText, error) {
	return c.collect("references", "*.md", 0)
}

// Scripts returns scripts/*.py sorted by file name, each truncated to its first
// 100 lines.
func (c *Collector) Scripts() ([]NamedText, error) {
	return c.collect("scripts", "*.py", scriptLineLimit)
}

func (c *Collector) collect(dir, pattern string, maxLines int) ([]NamedText, error) {
	paths, err := filepath.Glob(filepath.Join(c.SkillPath, dir, pattern))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var out []NamedText
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		text := string(data)
		if maxLines > 0 {
			lines := strings.Split(text, "\n")
			if len(lines) > maxLines {
				lines = lines[:maxLines]
			}
			text = strings.Join(lines, "\n")
		}
		out = append(out, NamedText{Name: filepath.Base(p), Text: text})
	}
	return out, nil
}

// FormatForPrompt renders the skill name, SKILL.md, references and scripts as
// markdown sections.
func (c *Collector) FormatForPrompt() (string, error) {
	md, err := c.SkillMD()
	if err != nil {
		return "", err
	}
	refs, err := c.References()
	if err != nil {
		return "", err
	}
	scripts, err := c.Scripts()
	if err != nil {
		return "", err
	}

	parts := []string{
		fmt.Sprintf("# Skill: %s\n", c.SkillName()),
		"## SKILL.md\n```markdown\n" + md + "\n```\n",
	}

	if len(refs) > 0 {
		parts = append(parts, "## Reference Files\n")
		for _, r := range refs {
			parts = append(parts, fmt.Sprintf("### %s\n```markdown\n%s\n```\n", r.Name, r.Text))
		}
	}

	if len(scripts) > 0 {
		parts = append(parts, "## Scripts (first 100 lines each)\n")
		for _, s := range scripts {
			parts = append(parts, fmt.Sprintf("### %s\n```python\n%s\n```\n", s.Name, s.Text))
		}
	}

	return strings.Join(parts, "\n"), nil
}

// sanitizeSkillName rejects names that could cause path traversal or are empty.
func sanitizeSkillName(name string) error {
	if name == "" {
		return fmt.Errorf("test name must not be empty")
	}
	if strings.Contains(name, "/") || strings.Contains(name, "\\") || strings.Contains(name, "..") {
		return fmt.Errorf("test name %q contains invalid path characters", name)
	}
	return nil
}
