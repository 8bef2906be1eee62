package prospects

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ranwtech/site/internal/ingest"
	"github.com/ranwtech/site/pkg/logger"
)

// FromRow builds a prospect from a parsed import row. Managed fields found in the row
// (a re-imported JSON export) are lifted out of the free-form columns.
func FromRow(row map[string]any, id string, seq int) *Prospect {
	p := &Prospect{ID: id, Seq: seq, Fields: make(map[string]any, len(row))}
	for k, v := range row {
		switch k {
		case keyID, keySeq:
		case keyStatus:
			if s, ok := v.(string); ok && CallStatus(s).Valid() {
				p.CallStatus = CallStatus(s)
			}
		case keyComments:
			if err := reshape(v, &p.Comments); err != nil {
				logger.Warnf("prospect %s: keeping unreadable %s column as-is: %v", id, k, err)
				p.Comments = nil
				p.Fields[k] = v
			}
		case keyInsurance:
			var needs map[InsuranceKey]InsuranceNeed
			if err := reshape(v, &needs); err != nil {
				logger.Warnf("prospect %s: keeping unreadable %s column as-is: %v", id, k, err)
				p.Fields[k] = v
				continue
			}
			for key := range needs {
				if !key.Valid() {
					delete(needs, key)
				}
			}
			if len(needs) > 0 {
				p.InsuranceNeeds = needs
			}
		default:
			p.Fields[k] = v
		}
	}
	return p
}

func reshape(in, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// Field looks up an imported column ignoring case, spaces and underscores, so
// "Company Full Name" finds "company_full_name". Non-string values are formatted.
func Field(p *Prospect, name string) string {
	target := ingest.NormalizeKey(name)
	for k, v := range p.Fields {
		if ingest.NormalizeKey(k) != target {
			continue
		}
		switch t := v.(type) {
		case nil:
			return ""
		case string:
			return t
		default:
			return fmt.Sprint(t)
		}
	}
	return ""
}

// Company is the display name used for search and headings.
func Company(p *Prospect) string {
	if v := Field(p, "Company Full Name"); v != "" {
		return v
	}
	return Field(p, "Company")
}

func matches(p *Prospect, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(Company(p)), lowerQuery) ||
		strings.Contains(strings.ToLower(Field(p, "CEO")), lowerQuery)
}
