package gear

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitTable() *WeightTable {
	return &WeightTable{
		Default: WeightSet{Stats: map[string]float64{"暴击": 2, "暴击伤害": 1, "攻击": 0.1}},
		Characters: map[string]WeightSet{
			"1102": {Stats: map[string]float64{"攻击": 0.5}, Cost: map[int]float64{4: 0.5}},
		},
	}
}

func TestItemScoreEmpty(t *testing.T) {
	c := NewCalculator(unitTable())
	score, breakdown := c.ItemScore("1", Echo{Cost: 4})
	assert.Zero(t, score)
	assert.Empty(t, breakdown)
}

func TestItemScoreWeights(t *testing.T) {
	c := NewCalculator(unitTable())
	e := Echo{Cost: 3, Stats: []Stat{{"暴击", 10.5}, {"暴击伤害", 21}, {"攻击", 50}, {"生命", 500}}}

	score, breakdown := c.ItemScore("1", e)
	assert.InDelta(t, 21+21+5, score, 1e-9)
	require.Len(t, breakdown, 4)
	assert.Zero(t, breakdown[3].Score, "unknown kind is worth nothing")

	// per-character override of one kind and of the cost factor
	score, _ = c.ItemScore("1102", Echo{Cost: 4, Stats: e.Stats})
	assert.InDelta(t, 0.5*(21+21+25), score, 1e-9)
}

func TestRoleScoreIsSumOfItems(t *testing.T) {
	c := NewCalculator(&WeightTable{Default: WeightSet{Stats: map[string]float64{"x": 1}}})
	echoes := []Echo{
		{Stats: []Stat{{"x", 12.5}}},
		{Stats: []Stat{{"x", 30}}},
		{},
	}
	assert.Equal(t, 42.5, c.RoleScore("1", echoes))
}

func TestScoreDeterministic(t *testing.T) {
	c := NewCalculator(nil)
	r := sampleRole(1102, true)
	first := c.Score(r)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, c.Score(r))
	}
	assert.Positive(t, first)
}

func TestPropStat(t *testing.T) {
	s, ok := Prop{"攻击", "10%"}.Stat()
	require.True(t, ok)
	assert.Equal(t, Stat{"攻击%", 10}, s)

	s, ok = Prop{"攻击", "60"}.Stat()
	require.True(t, ok)
	assert.Equal(t, Stat{"攻击", 60}, s)

	s, ok = Prop{"暴击", "8.1%"}.Stat()
	require.True(t, ok)
	assert.Equal(t, Stat{"暴击", 8.1}, s)

	_, ok = Prop{"暴击", "n/a"}.Stat()
	assert.False(t, ok)
}

func sampleRole(id int, withChain bool) RoleRecord {
	doc := `{"role":{"roleId":` + CharID(id) + `,"roleName":"x","starLevel":5},
	"phantomData":{"cost":12,"equipPhantomList":[
		{"cost":4,"mainProps":[{"attributeName":"暴击","attributeValue":"22%"}],
		 "subProps":[{"attributeName":"暴击伤害","attributeValue":"21%"},{"attributeName":"攻击","attributeValue":"10.1%"}]},
		null,
		{"cost":1,"mainProps":[],"subProps":[]}
	]}`
	if withChain {
		doc += `,"chainList":[{"unlocked":true},{"unlocked":true},{"unlocked":false}]`
	}
	doc += `}`
	var r RoleRecord
	if err := json.Unmarshal([]byte(doc), &r); err != nil {
		panic(err)
	}
	return r
}

func TestRoleRecordChainVariants(t *testing.T) {
	with := sampleRole(1, true)
	n, ok := with.ChainCount()
	assert.True(t, ok)
	assert.Equal(t, 2, n)
	assert.IsType(t, ChainKnown{}, with.Chain)

	without := sampleRole(2, false)
	_, ok = without.ChainCount()
	assert.False(t, ok)
	assert.IsType(t, ChainMissing{}, without.Chain)

	echoes := with.Echoes()
	require.Len(t, echoes, 1, "null and empty slots are skipped")
	assert.Equal(t, []Stat{{"暴击", 22}, {"暴击伤害", 21}, {"攻击%", 10.1}}, echoes[0].Stats)
}

func TestRoleRecordMarshalKeepsVariant(t *testing.T) {
	b, err := json.Marshal(sampleRole(3, false))
	require.NoError(t, err)
	assert.NotContains(t, string(b), "chainList")

	var back RoleRecord
	require.NoError(t, json.Unmarshal(b, &back))
	assert.IsType(t, ChainMissing{}, back.Chain)
}

func TestRoleDocumentForms(t *testing.T) {
	var list RoleDocument
	require.NoError(t, json.Unmarshal([]byte(`[{"role":{"roleId":1,"starLevel":5},"chainList":[]},{"role":{"roleId":2,"starLevel":4}}]`), &list))
	require.Len(t, list, 2)

	var obj RoleDocument
	require.NoError(t, json.Unmarshal([]byte(`{"2":{"role":{"roleId":2}},"1":{"role":{"roleId":1}}}`), &obj))
	require.Len(t, obj, 2)
	assert.Equal(t, 1, obj[0].Role.RoleID)

	_, ok := obj.Find(2)
	assert.True(t, ok)
	_, ok = obj.Find(9)
	assert.False(t, ok)

	var bad RoleDocument
	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &bad))
}

func TestFiveStarGold(t *testing.T) {
	doc := RoleDocument{sampleRole(1, true), sampleRole(2, false)}
	doc = append(doc, RoleRecord{Role: Role{RoleID: 3, StarLevel: 4}, Chain: ChainKnown{Unlocked: 6}})
	assert.Equal(t, 3+1, doc.FiveStarGold())
}

func TestLoadWeightTable(t *testing.T) {
	tbl, err := LoadWeightTable("")
	require.NoError(t, err)
	assert.Equal(t, 2.0, tbl.Weight("any", "暴击"))

	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
characters:
  "1205":
    stats:
      共鸣效率: 1.2
`), 0o644))
	tbl, err = LoadWeightTable(path)
	require.NoError(t, err)
	assert.Equal(t, 1.2, tbl.Weight("1205", "共鸣效率"))
	assert.Equal(t, 0.4, tbl.Weight("1102", "共鸣效率"))
	assert.Equal(t, 2.0, tbl.Weight("1205", "暴击"))

	require.NoError(t, os.WriteFile(path, []byte("characters:\n  \"1\":\n    stats:\n      暴击: -1\n"), 0o644))
	_, err = LoadWeightTable(path)
	assert.Error(t, err)
}

func TestLoadWeightTableRejectsNegative(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	for _, doc := range []string{
		"default:\n  stats:\n    暴击: -3\n",
		"default:\n  cost:\n    4: -1\n",
		"characters:\n  \"1\":\n    cost:\n      3: -0.5\n",
	} {
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
		_, err := LoadWeightTable(path)
		assert.Error(t, err, doc)
	}
}
