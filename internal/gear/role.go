package gear

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

type Role struct {
	RoleID    int    `json:"roleId"`
	RoleName  string `json:"roleName"`
	StarLevel int    `json:"starLevel"`
	Level     int    `json:"level"`
}

type Chain struct {
	Name     string `json:"name,omitempty"`
	Unlocked bool   `json:"unlocked"`
}

// Prop is one rolled attribute as the upstream API reports it, e.g. {"暴击", "10.5%"}.
type Prop struct {
	AttributeName  string `json:"attributeName"`
	AttributeValue string `json:"attributeValue"`
}

type Phantom struct {
	PhantomID int    `json:"phantomId,omitempty"`
	Cost      int    `json:"cost"`
	MainProps []Prop `json:"mainProps"`
	SubProps  []Prop `json:"subProps"`
}

type PhantomData struct {
	Cost             int        `json:"cost"`
	EquipPhantomList []*Phantom `json:"equipPhantomList"` // slots may be null
}

// ChainState says whether the document carried resonance chain data for a role.
type ChainState interface {
	chainState()
}

// ChainKnown holds the number of unlocked chain nodes (0..6).
type ChainKnown struct{ Unlocked int }

// ChainMissing marks a role document without a chainList.
type ChainMissing struct{}

func (ChainKnown) chainState()   {}
func (ChainMissing) chainState() {}

// RoleRecord is one character entry of rawData.json.
type RoleRecord struct {
	Role        Role
	Chain       ChainState
	ChainList   []Chain
	PhantomData *PhantomData
}

type roleWire struct {
	Role        Role         `json:"role"`
	ChainList   *[]Chain     `json:"chainList,omitempty"`
	PhantomData *PhantomData `json:"phantomData,omitempty"`
}

func (r *RoleRecord) UnmarshalJSON(b []byte) error {
	var w roleWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*r = RoleRecord{Role: w.Role, PhantomData: w.PhantomData, Chain: ChainMissing{}}
	if w.ChainList != nil {
		r.ChainList = *w.ChainList
		n := 0
		for _, c := range r.ChainList {
			if c.Unlocked {
				n++
			}
		}
		r.Chain = ChainKnown{Unlocked: n}
	}
	return nil
}

func (r RoleRecord) MarshalJSON() ([]byte, error) {
	w := roleWire{Role: r.Role, PhantomData: r.PhantomData}
	if _, ok := r.Chain.(ChainKnown); ok {
		cl := r.ChainList
		if cl == nil {
			cl = []Chain{}
		}
		w.ChainList = &cl
	}
	return json.Marshal(w)
}

// ChainCount returns the unlocked chain count and whether it is known.
func (r RoleRecord) ChainCount() (int, bool) {
	if c, ok := r.Chain.(ChainKnown); ok {
		return c.Unlocked, true
	}
	return 0, false
}

// Echoes converts the equipped phantoms into scoreable items. Null slots and slots
// without props are skipped.
func (r RoleRecord) Echoes() []Echo {
	if r.PhantomData == nil {
		return nil
	}
	var out []Echo
	for _, p := range r.PhantomData.EquipPhantomList {
		if p == nil || len(p.MainProps)+len(p.SubProps) == 0 {
			continue
		}
		e := Echo{Cost: p.Cost}
		for _, prop := range append(append([]Prop(nil), p.MainProps...), p.SubProps...) {
			if s, ok := prop.Stat(); ok {
				e.Stats = append(e.Stats, s)
			}
		}
		out = append(out, e)
	}
	return out
}

// flat attributes that also exist as percentages; the percent form gets a "%" suffix
var splitKinds = map[string]bool{"攻击": true, "生命": true, "防御": true}

// Stat parses the display value. "攻击" with "10%" becomes kind "攻击%" value 10.
func (p Prop) Stat() (Stat, bool) {
	v := strings.TrimSpace(p.AttributeValue)
	pct := strings.HasSuffix(v, "%")
	v = strings.TrimSuffix(v, "%")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || p.AttributeName == "" {
		return Stat{}, false
	}
	kind := p.AttributeName
	if pct && splitKinds[kind] {
		kind += "%"
	}
	return Stat{Kind: kind, Value: f}, true
}

// RoleDocument decodes rawData.json, which is stored either as an array of role records
// or as an object keyed by role id.
type RoleDocument []RoleRecord

func (d *RoleDocument) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*d = nil
		return nil
	}
	switch b[0] {
	case '[':
		var list []RoleRecord
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*d = list
	case '{':
		var byID map[string]RoleRecord
		if err := json.Unmarshal(b, &byID); err != nil {
			return err
		}
		keys := make([]string, 0, len(byID))
		for k := range byID {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		list := make([]RoleRecord, 0, len(keys))
		for _, k := range keys {
			list = append(list, byID[k])
		}
		*d = list
	default:
		return errors.Newf("role document: unexpected token %q", b[0])
	}
	return nil
}

// Find returns the record for roleID.
func (d RoleDocument) Find(roleID int) (RoleRecord, bool) {
	for _, r := range d {
		if r.Role.RoleID == roleID {
			return r, true
		}
	}
	return RoleRecord{}, false
}

// FiveStarGold counts gold pulls implied by owned five-star characters: chain+1 each.
// Roles without chain data count as one.
func (d RoleDocument) FiveStarGold() int {
	total := 0
	for _, r := range d {
		if r.Role.StarLevel != 5 {
			continue
		}
		n, _ := r.ChainCount()
		total += n + 1
	}
	return total
}
