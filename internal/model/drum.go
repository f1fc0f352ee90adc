package model

// Drum represents one physical drum on loan, one row of the `drums`
// table. The table is destroyed and rebuilt wholesale by the daily
// bulk import, so rows have no end-user level lifecycle. A drum code
// is unique only together with the owning company's NIP. Dates are
// kept as ISO `YYYY-MM-DD` strings exactly as normalized by the
// importer; an empty string means the source export had no value.
//
// Fields:
//  ID        – surrogate primary key, assigned on insert.
//  KodBebna  – drum code from the source export (required).
//  NIP       – owning company; weak reference, nulled when the
//              company is deleted.
//  Nazwa     – descriptive name of the drum.
//  Cecha     – characteristic / trait string.
//  KonDostawca – supplier info.
//  DataWydania – issue date (ISO string, may be empty).
//  DataZwrotu  – due-back date computed by the upstream export
//                (ISO string, may be empty; the effective due date
//                falls back to issue date + return period).
//  TypDok      – source document type.
//  NrDokumentuPZ – goods-received document reference.
//  Status    – free-text status from the export.
//  Extra     – CSV columns the importer did not recognize, kept
//              verbatim under their original header names.
type Drum struct {
	ID            uint64            `json:"id"`
	KodBebna      string            `json:"kod_bebna"`
	NIP           string            `json:"nip"`
	Nazwa         string            `json:"nazwa"`
	Cecha         string            `json:"cecha"`
	KonDostawca   string            `json:"kon_dostawca"`
	DataWydania   string            `json:"data_wydania"`
	DataZwrotu    string            `json:"data_zwrotu_do_dostawcy"`
	TypDok        string            `json:"typ_dok"`
	NrDokumentuPZ string            `json:"nr_dokumentupz"`
	Status        string            `json:"status"`
	Extra         map[string]string `json:"extra,omitempty"`
}

// DrumView is a Drum enriched with the effective due date and the
// overdue flag computed against the owning company's return period.
// Listing queries return this shape directly.
type DrumView struct {
	Drum
	DueDate string `json:"due_date"` // effective due date (ISO)
	Overdue bool   `json:"overdue"`
}
