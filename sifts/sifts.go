// Package sifts decodes the residue-level UniProt <-> PDB cross references
// published by the SIFTS project (PDBe "mappings/uniprot/{pdb_id}" endpoint)
// into mapping segments. Retrieval of the payload is left to the caller.
package sifts

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/structmap/mapping"
)

// Entry holds the SIFTS mappings for one PDB entry.
type Entry struct {
	PDBID   string                `json:"-"`
	UniProt map[string]*Accession `json:"UniProt"`
}

// Accession represents a UniProt accession and its chain mappings.
type Accession struct {
	Identifier string     `json:"identifier"`
	Name       string     `json:"name"`
	Mappings   []*Mapping `json:"mappings"`
}

// Mapping is one aligned segment between the UniProt sequence and a chain.
type Mapping struct {
	EntityID     int64     `json:"entity_id"`
	ChainID      string    `json:"chain_id"`
	StructAsymID string    `json:"struct_asym_id"`
	UnpStart     int64     `json:"unp_start"`
	UnpEnd       int64     `json:"unp_end"`
	PDBStart     *Position `json:"start"`
	PDBEnd       *Position `json:"end"`
}

// Position is the start or end of a mapped range on the structure side.
type Position struct {
	ResidueNumber       int64  `json:"residue_number"`
	AuthorResidueNumber *int64 `json:"author_residue_number"`
	AuthorInsertionCode string `json:"author_insertion_code"`
}

// Decode reads a SIFTS payload. The payload is keyed by PDB identifier; it must
// contain exactly one entry.
func Decode(r io.Reader) (*Entry, error) {
	pdbs := make(map[string]json.RawMessage)
	if err := json.NewDecoder(r).Decode(&pdbs); err != nil {
		return nil, pfx.Err(fmt.Errorf("unmarshal: %v", err))
	}

	if len(pdbs) != 1 {
		return nil, pfx.Err(fmt.Errorf("expected one PDB entry in SIFTS payload but got %d", len(pdbs)))
	}

	for pdbID, raw := range pdbs {
		entry := &Entry{PDBID: strings.ToUpper(pdbID)}
		if err := json.Unmarshal(raw, entry); err != nil {
			return nil, pfx.Err(fmt.Errorf("unmarshal %s: %v", pdbID, err))
		}
		return entry, nil
	}

	return nil, nil
}

// Accessions returns the UniProt accessions present, sorted.
func (e *Entry) Accessions() []string {
	out := make([]string, 0, len(e.UniProt))
	for acc := range e.UniProt {
		out = append(out, acc)
	}
	sort.Strings(out)
	return out
}

// Segments returns the mapping segments for one accession in payload order.
// If chain is non-empty, only segments on that chain are returned. Segments
// are returned as-is; their consistency is checked by mapping.Build.
func (e *Entry) Segments(accession, chain string) ([]mapping.Segment, error) {
	acc, ok := e.UniProt[accession]
	if !ok {
		return nil, fmt.Errorf("accession %s not in SIFTS mappings for %s", accession, e.PDBID)
	}

	out := make([]mapping.Segment, 0, len(acc.Mappings))
	for _, m := range acc.Mappings {
		if chain != "" && m.ChainID != chain {
			continue
		}
		if m.PDBStart == nil || m.PDBEnd == nil {
			continue
		}

		out = append(out, mapping.Segment{
			ReferenceStart: int(m.UnpStart),
			ReferenceEnd:   int(m.UnpEnd),
			StructureStart: int(m.PDBStart.ResidueNumber),
			StructureEnd:   int(m.PDBEnd.ResidueNumber),
			Chain:          m.ChainID,
		})
	}

	if len(out) == 0 && chain != "" {
		return out, fmt.Errorf("chain %s not in SIFTS mappings for %s/%s", chain, e.PDBID, accession)
	}

	return out, nil
}
