package resume

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractExperienceStructured(t *testing.T) {
	text := "Experience\nSenior Accountant 2019 to 2023\n- Managed general ledger\nStaff Accountant present\nVolunteer work without dates"

	entries := ExtractExperience(text)

	require.Len(t, entries, 2)
	assert.Equal(t, ExperienceEntry{
		Position:    "Senior Accountant",
		Dates:       "2019 to 2023",
		Description: "- Managed general ledger",
	}, entries[0])
	assert.Equal(t, "Staff Accountant", entries[1].Position)
	assert.Equal(t, "present", entries[1].Dates)
	assert.Equal(t, "", entries[1].Description)
}

func TestExtractExperienceFallback(t *testing.T) {
	text := "Jane Doe\nAccountant 2015 to 2019\nState University, 2010 - 2014"

	entries := ExtractExperience(text)

	require.Len(t, entries, 1)
	assert.Equal(t, "Jane Doe\nAccountant", entries[0].Position)
	assert.Equal(t, "2015 to 2019", entries[0].Dates)
	assert.Equal(t, "State University, 2010 - 2014", entries[0].Description)
}

func TestExtractExperienceFallbackStopsAtNextEntry(t *testing.T) {
	text := "Clerk Jan 2010 - Feb 2012\n  filed records\nBookkeeper 2012 to 2014\n  kept books"

	entries := ExtractExperience(text)

	require.Len(t, entries, 2)
	assert.Equal(t, "Clerk", entries[0].Position)
	assert.Equal(t, "Jan 2010 - Feb 2012", entries[0].Dates)
	assert.Equal(t, "filed records", entries[0].Description)
	assert.Equal(t, "Bookkeeper", entries[1].Position)
	assert.Equal(t, "2012 to 2014", entries[1].Dates)
	assert.Equal(t, "kept books", entries[1].Description)
}

func TestExtractExperienceFallbackUnicodeBoundaries(t *testing.T) {
	text := "Comptable à Paris 2015 – 2019\n  tenue des comptes\n" +
		"Commis é2019 - 2020\n  classement\n" +
		"Caissier 2012 to 2014é\n  caisse"

	entries := ExtractExperience(text)

	// 紧贴非ASCII字母的年份不构成日期区间
	require.Len(t, entries, 1)
	assert.Equal(t, "Comptable à Paris", entries[0].Position)
	assert.Equal(t, "2015 – 2019", entries[0].Dates)
	assert.Equal(t, "tenue des comptes", entries[0].Description)
}

func TestExtractExperienceLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("Experience\n")
	for i := 1; i <= 12; i++ {
		fmt.Fprintf(&b, "Role %d 2000 to 2001\n", i)
	}

	entries := ExtractExperience(b.String())

	require.Len(t, entries, MaxExperienceEntries)
	assert.Equal(t, "Role 1", entries[0].Position)
	assert.Equal(t, "Role 10", entries[9].Position)
}

func TestExtractExperienceNone(t *testing.T) {
	entries := ExtractExperience("nothing dated here")
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestExtractEducationStructured(t *testing.T) {
	text := "Education\nState University, BS Accounting, 2014\nCommunity College"

	entries := ExtractEducation(text)

	assert.Equal(t, []EducationEntry{
		{Institution: "State University", Degree: "BS Accounting", Year: "2014"},
		{Institution: "Community College"},
	}, entries)
}

func TestExtractEducationFallback(t *testing.T) {
	text := "Jane Doe\nState University, 2010 - 2014\nTech Institute, 2015 to present"

	entries := ExtractEducation(text)

	assert.Equal(t, []EducationEntry{
		{Institution: "State University", Year: "2014"},
		{Institution: "Tech Institute", Year: "present"},
	}, entries)
}

func TestExtractEducationLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("Education\n")
	for i := 1; i <= 7; i++ {
		fmt.Fprintf(&b, "School %d\n", i)
	}

	entries := ExtractEducation(b.String())

	require.Len(t, entries, MaxEducationEntries)
	assert.Equal(t, "School 5", entries[4].Institution)
}

func TestExtractSkills(t *testing.T) {
	p := NewParser()

	t.Run("section scope", func(t *testing.T) {
		text := "Summary\nUses Oracle daily\nSkills\nexcel, gaap, Louis II\nAccounts Payable"
		skills := p.ExtractSkills(text)

		assert.Equal(t, []string{"Excel", "Louis II"}, skills["tools"])
		assert.Equal(t, []string{"accounts payable", "GAAP"}, skills["accounting"])
		assert.Empty(t, skills["finance"])
		assert.Empty(t, skills["management"])
	})

	t.Run("whole text when no skills section", func(t *testing.T) {
		skills := p.ExtractSkills("Responsible for budgeting and Oracle reporting")
		assert.Equal(t, []string{"budgeting"}, skills["accounting"])
		assert.Equal(t, []string{"Oracle"}, skills["tools"])
	})

	t.Run("word boundaries", func(t *testing.T) {
		skills := p.ExtractSkills("Excellence in SAPling care")
		assert.Empty(t, skills["tools"])

		// 非ASCII字母同样算作单词字符
		skills = p.ExtractSkills("Skills\nExcelé, éGAAP, 2SAP")
		assert.Empty(t, skills["tools"])
		assert.Empty(t, skills["accounting"])

		skills = p.ExtractSkills("Skills\nCafé Excel, (GAAP)")
		assert.Equal(t, []string{"Excel"}, skills["tools"])
		assert.Equal(t, []string{"GAAP"}, skills["accounting"])
	})

	t.Run("every category present", func(t *testing.T) {
		skills := p.ExtractSkills("")
		assert.Len(t, skills, 4)
		for _, name := range DefaultTaxonomy().CategoryNames() {
			hits, ok := skills[name]
			assert.True(t, ok)
			assert.NotNil(t, hits)
		}
	})
}

func TestTaxonomy(t *testing.T) {
	_, err := NewTaxonomy(nil)
	assert.Error(t, err)

	_, err = NewTaxonomy([]Category{{Name: " "}})
	assert.Error(t, err)

	_, err = NewTaxonomy([]Category{{Name: "a"}, {Name: "a"}})
	assert.Error(t, err)

	tax, err := NewTaxonomy([]Category{{Name: "languages", Keywords: []string{"C++", "Go", ""}}})
	require.NoError(t, err)
	assert.Equal(t, []Category{{Name: "languages", Keywords: []string{"C++", "Go"}}}, tax.Categories())
	assert.Equal(t, []string{"Go"}, tax.Match("Writes Go services")["languages"])
	assert.Equal(t, []string{"Go"}, tax.Match("Go")["languages"])
	assert.Empty(t, tax.Match("Gopher")["languages"])

	// 以符号结尾的关键词要求其后紧跟单词字符
	assert.Empty(t, tax.Match("Writes C++ daily")["languages"])
	assert.Equal(t, []string{"C++"}, tax.Match("C++11")["languages"])

	assert.Equal(t, []string{"accounting", "finance", "tools", "management"}, DefaultTaxonomy().CategoryNames())
}

func TestLoadTaxonomy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.toml")
	content := `
[[category]]
name = "cloud"
keywords = ["AWS", "Kubernetes"]

[[category]]
name = "data"
keywords = ["SQL"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	tax, err := LoadTaxonomy(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cloud", "data"}, tax.CategoryNames())

	p := NewParser(WithTaxonomy(tax))
	skills := p.ExtractSkills("Skills\nkubernetes, sql")
	assert.Equal(t, []string{"Kubernetes"}, skills["cloud"])
	assert.Equal(t, []string{"SQL"}, skills["data"])

	_, err = LoadTaxonomy(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
