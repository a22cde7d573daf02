package postgres

import (
	"database/sql"

	"github.com/kailas-cloud/nsnsearch/internal/domain/nsn"
)

// table maps a logical reference table onto its relation and columns.
type table struct {
	relation string
	nameCol  string // empty when the table carries no item name
	fscCol   string // empty when the table carries no supply class
	load     string
	scan     func(*sql.Rows) (nsn.Fragments, error)
}

var tables = map[nsn.Table]table{
	nsn.TableStock: {
		relation: "pull2",
		nameCol:  `"itemName"`,
		fscCol:   "fsc",
		load: `SELECT DISTINCT ON (niin) niin, fsc, "itemName", "commonName", characteristics, "publicationDate"::text
FROM pull2 WHERE niin = ANY($1) ORDER BY niin`,
		scan: scanStock,
	},
	nsn.TableNames: {
		relation: "names",
		nameCol:  "item_name",
		fscCol:   "fsc",
		load: `SELECT niin, item_name, common_name, fsc, characteristics
FROM names WHERE niin = ANY($1) ORDER BY niin, item_name`,
		scan: scanName,
	},
	nsn.TablePrices: {
		relation: "prices",
		load: `SELECT DISTINCT ON (niin) niin, "unitPrice"::text, ui
FROM prices WHERE niin = ANY($1) ORDER BY niin`,
		scan: scanPrice,
	},
	nsn.TableWeights: {
		relation: "weights",
		load: `SELECT DISTINCT ON (niin) niin, dss_weight::text, dss_cube::text, publication_date::text
FROM weights WHERE niin = ANY($1) ORDER BY niin`,
		scan: scanWeight,
	},
	nsn.TableDescriptions: {
		relation: "descriptions",
		load: `SELECT DISTINCT ON (niin) niin, "requirementsStatement", "clearTextReply"
FROM descriptions WHERE niin = ANY($1) ORDER BY niin`,
		scan: scanDescription,
	},
	nsn.TableAacs: {
		relation: "aacs",
		load: `SELECT DISTINCT ON (niin) niin, aac
FROM aacs WHERE niin = ANY($1) ORDER BY niin`,
		scan: scanAac,
	},
	nsn.TableFscs: {
		relation: "fscs",
		fscCol:   "fsc",
		load: `SELECT DISTINCT ON (niin) niin, fsc
FROM fscs WHERE niin = ANY($1) ORDER BY niin`,
		scan: scanFsc,
	},
}

func scanStock(rows *sql.Rows) (nsn.Fragments, error) {
	var (
		niin                            string
		fsc, item, common, chars, pubAt sql.NullString
	)
	if err := rows.Scan(&niin, &fsc, &item, &common, &chars, &pubAt); err != nil {
		return nsn.Fragments{}, err
	}
	return nsn.Fragments{NIIN: niin, Stock: &nsn.StockRecord{
		NIIN:            niin,
		FSC:             fsc.String,
		ItemName:        item.String,
		CommonName:      common.String,
		Characteristics: ptr(chars),
		PublicationDate: ptr(pubAt),
	}}, nil
}

func scanName(rows *sql.Rows) (nsn.Fragments, error) {
	var (
		niin                     string
		item, common, fsc, chars sql.NullString
	)
	if err := rows.Scan(&niin, &item, &common, &fsc, &chars); err != nil {
		return nsn.Fragments{}, err
	}
	return nsn.Fragments{NIIN: niin, Names: []nsn.NameEntry{{
		NIIN:            niin,
		ItemName:        item.String,
		CommonName:      common.String,
		FSC:             fsc.String,
		Characteristics: ptr(chars),
	}}}, nil
}

func scanPrice(rows *sql.Rows) (nsn.Fragments, error) {
	var (
		niin      string
		price, ui sql.NullString
	)
	if err := rows.Scan(&niin, &price, &ui); err != nil {
		return nsn.Fragments{}, err
	}
	return nsn.Fragments{NIIN: niin, Price: &nsn.PriceEntry{
		NIIN: niin, UnitPrice: ptr(price), UnitOfIssue: ptr(ui),
	}}, nil
}

func scanWeight(rows *sql.Rows) (nsn.Fragments, error) {
	var (
		niin               string
		weight, cube, date sql.NullString
	)
	if err := rows.Scan(&niin, &weight, &cube, &date); err != nil {
		return nsn.Fragments{}, err
	}
	return nsn.Fragments{NIIN: niin, Weight: &nsn.WeightEntry{
		NIIN: niin, Weight: ptr(weight), Cube: ptr(cube), PublicationDate: ptr(date),
	}}, nil
}

func scanDescription(rows *sql.Rows) (nsn.Fragments, error) {
	var (
		niin         string
		req, clearTx sql.NullString
	)
	if err := rows.Scan(&niin, &req, &clearTx); err != nil {
		return nsn.Fragments{}, err
	}
	return nsn.Fragments{NIIN: niin, Description: &nsn.DescriptionEntry{
		NIIN: niin, RequirementsStatement: ptr(req), ClearTextReply: ptr(clearTx),
	}}, nil
}

func scanAac(rows *sql.Rows) (nsn.Fragments, error) {
	var (
		niin string
		aac  sql.NullString
	)
	if err := rows.Scan(&niin, &aac); err != nil {
		return nsn.Fragments{}, err
	}
	return nsn.Fragments{NIIN: niin, Aac: &nsn.AacEntry{NIIN: niin, AAC: aac.String}}, nil
}

func scanFsc(rows *sql.Rows) (nsn.Fragments, error) {
	var (
		niin string
		fsc  sql.NullString
	)
	if err := rows.Scan(&niin, &fsc); err != nil {
		return nsn.Fragments{}, err
	}
	return nsn.Fragments{NIIN: niin, Fsc: &nsn.FscEntry{NIIN: niin, FSC: fsc.String}}, nil
}

func ptr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
