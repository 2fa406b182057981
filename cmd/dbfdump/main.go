package main

import (
	"encoding/csv"
	"flag"
	"log"
	"os"

	"github.com/orrollo/godbf"
)

var (
	memoPath = flag.String("memo", "", "path to the companion .dbt memo file")
	charset  = flag.String("charset", "", "charset of text content (e.g. gbk, cp1251); default 7-bit ASCII")
)

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		log.Fatal("usage: dbfdump [-memo file.dbt] [-charset name] input.dbf [output.csv]")
	}
	dbffile := flag.Arg(0)
	csvfile := "output.csv"
	if flag.NArg() > 1 {
		csvfile = flag.Arg(1)
	}

	save(dbffile, csvfile)
}

func save(dbffile, csvfile string) {
	var opts []godbf.Option
	if *charset != "" {
		opts = append(opts, godbf.WithCharset(*charset))
	}

	var db *godbf.Reader
	var err error
	if *memoPath != "" {
		db, err = godbf.OpenWithMemo(dbffile, *memoPath, opts...)
	} else {
		db, err = godbf.Open(dbffile, opts...)
	}
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	fl, err := os.Create(csvfile)
	if err != nil {
		log.Fatal(err)
	}
	defer fl.Close()
	w := csv.NewWriter(fl)
	defer w.Flush()

	header := make([]string, 0, db.FieldCount())
	for _, field := range db.Fields() {
		header = append(header, field.Name)
	}
	if err := w.Write(header); err != nil {
		log.Fatal(err)
	}

	var count int
	row := make([]string, db.FieldCount())
	for {
		ok, err := db.ReadNext()
		if err != nil {
			log.Fatal(err)
		}
		if !ok {
			break
		}
		for i, v := range db.Record() {
			row[i] = v.String()
		}
		if err := w.Write(row); err != nil {
			log.Fatal(err)
		}
		count++
	}
	log.Println("Total records in CSV:", count)
}
