package main

import (
	"encoding/json"
	"fmt"

	"github.com/asdine/storm/v3"
	"github.com/mdouchement/sharedlist/internal/database"
	"github.com/mdouchement/sharedlist/internal/model"
	"github.com/mdouchement/sharedlist/pkg/stormsql"
	"github.com/mdouchement/sharedlist/pkg/structs"
	"github.com/muesli/coral"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// go run tools/console/main.go sharedlist.db "SELECT name, quantity FROM items WHERE purchased = false AND created_at > '2024-02-16 20:52:55' ORDER BY created_at DESC LIMIT 10;"

var codec string

func main() {
	c := &coral.Command{
		Use:   "console DATABASE QUERY",
		Short: "SQL console for sharedlist storm database",
		Args:  coral.ExactArgs(2),
		RunE: func(_ *coral.Command, args []string) error {
			//
			//
			sc, err := stormsql.ParseSelect(args[1])
			if err != nil {
				return err
			}
			if sc.Tablename != "items" {
				return errors.Errorf("unknown tablename: %s", sc.Tablename)
			}

			//
			//
			option, err := database.StormCodecByName(codec)
			if err != nil {
				return err
			}

			logrus.Infof("Opening %s", args[0])
			db, err := storm.Open(args[0], option)
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			//
			// Prepare request
			//

			query := db.Select(sc.Matcher)
			if sc.Skip > 0 {
				query.Skip(sc.Skip)
			}
			if sc.Limit > 0 {
				query.Limit(sc.Limit)
			}
			if len(sc.OrderBy) > 0 {
				query.OrderBy(sc.OrderBy...)
				if sc.OrderByReversed {
					query.Reverse()
				}
			}

			// Execute

			if sc.Count {
				return count(query)
			}

			return list(sc, query)
		},
	}
	c.Flags().StringVarP(&codec, "codec", "", "msgpack", "Storm codec (msgpack, cbor or binc)")

	if err := c.Execute(); err != nil {
		logrus.Fatalf("%+v", err)
	}
}

func count(query storm.Query) error {
	n, err := query.Count(&model.Item{})
	if err != nil {
		return errors.Wrap(err, "could not perform query")
	}

	fmt.Println("Count:", n)
	return nil
}

func list(sc *stormsql.SelectClause, query storm.Query) error {
	var items []*model.Item

	err := query.Find(&items)
	if err == storm.ErrNotFound {
		fmt.Println("[]")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "could not perform query")
	}

	if len(sc.SelectedFields) == 0 {
		jsondump(items)
		return nil
	}

	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		row, err := structs.Project(item, sc.SelectedFields...)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	jsondump(rows)

	return nil
}

func jsondump(v any) {
	d, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		panic(err)
	}
	fmt.Println(string(d))
}
