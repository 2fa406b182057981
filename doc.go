/*
Package godbf reads dBASE (.dbf) tables, optionally paired with their
companion memo (.dbt) file, and exposes typed decoded field values record
by record. It is a forward-only, read-only decoder: no database engine,
no writing.

Typical usage

	db, err := godbf.Open("countries.dbf")
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	for {
		ok, err := db.ReadNext()
		if err != nil {
			log.Fatal(err) // or log and keep reading
		}
		if !ok {
			break
		}
		fmt.Println(db.ValueByName("NAME1").String())
	}

Soft-deleted records are skipped transparently. Blank numerics, blank
dates and '?' logicals decode to a null Value, not an error. Text content
defaults to 7-bit ASCII; pass WithCharset to decode legacy code pages.
*/
package godbf
