// Package stormsql translates SQL SELECT statements into storm queries.
package stormsql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/asdine/storm/v3/q"
	"github.com/pkg/errors"
	"github.com/xwb1989/sqlparser"
)

// A SelectClause contains all the parsed SQL data.
type SelectClause struct {
	SelectedFields  []string
	Count           bool
	Tablename       string
	Matcher         q.Matcher
	Skip            int
	Limit           int
	OrderBy         []string
	OrderByReversed bool
}

// FieldName returns the struct field name of a column.
// Both `created_at` and `CreatedAt` give `CreatedAt`, `id` gives `ID`.
func FieldName(column string) string {
	if column == "" || strings.EqualFold(column, "id") {
		return strings.ToUpper(column)
	}
	if !strings.Contains(column, "_") {
		return strings.ToUpper(column[:1]) + column[1:]
	}

	var b strings.Builder
	for _, part := range strings.Split(column, "_") {
		if part == "" {
			continue
		}
		if strings.EqualFold(part, "id") {
			b.WriteString("ID")
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]) + strings.ToLower(part[1:]))
	}
	return b.String()
}

// ParseSelect parses the given SELECT statement.
func ParseSelect(sql string) (*SelectClause, error) {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse SQL")
	}

	s, ok := stmt.(*sqlparser.Select)
	if !ok {
		return nil, errors.New("not a select statement")
	}

	var sc SelectClause

	// SELECT * ...
	// SELECT name, purchased ...
	for _, se := range s.SelectExprs {
		switch v := se.(type) {
		case *sqlparser.StarExpr:
			sc.SelectedFields = []string{}
		case *sqlparser.AliasedExpr:
			switch v := v.Expr.(type) {
			case *sqlparser.ColName:
				sc.SelectedFields = append(sc.SelectedFields, FieldName(v.Name.String()))
			case *sqlparser.FuncExpr:
				if !v.Name.EqualString("count") {
					return nil, errors.Errorf("unsupported function %s", v.Name.String())
				}
				sc.SelectedFields = []string{}
				sc.Count = true
			default:
				return nil, errors.New("unsupported select expression")
			}
		default:
			return nil, errors.New("unsupported select expression")
		}
	}

	// FROM items
	if len(s.From) != 1 {
		return nil, errors.New("exactly one table is expected")
	}
	table, ok := s.From[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return nil, errors.New("unsupported table expression")
	}
	sc.Tablename = sqlparser.GetTableName(table.Expr).String()

	// WHERE
	sc.Matcher = q.And()
	if s.Where != nil {
		if sc.Matcher, err = parseWhereExpr(s.Where.Expr); err != nil {
			return nil, err
		}
	}

	// LIMIT 5
	// LIMIT 2,5
	if s.Limit != nil {
		if s.Limit.Offset != nil {
			if sc.Skip, err = parseInt(s.Limit.Offset); err != nil {
				return nil, errors.Wrap(err, "offset")
			}
		}
		if sc.Limit, err = parseInt(s.Limit.Rowcount); err != nil {
			return nil, errors.Wrap(err, "limit")
		}
	}

	// ORDER BY created_at
	// ORDER BY created_at DESC
	// ORDER BY created_at DESC, name ASC     => All will be DESC due to storm limitation
	for _, ob := range s.OrderBy {
		col, ok := ob.Expr.(*sqlparser.ColName)
		if !ok {
			return nil, errors.New("unsupported order expression")
		}
		if ob.Direction == sqlparser.DescScr {
			sc.OrderByReversed = true
		}
		sc.OrderBy = append(sc.OrderBy, FieldName(col.Name.String()))
	}

	return &sc, nil
}

func parseWhereExpr(expr sqlparser.Expr) (q.Matcher, error) {
	switch v := expr.(type) {
	case *sqlparser.ParenExpr:
		return parseWhereExpr(v.Expr)
	case *sqlparser.NotExpr:
		m, err := parseWhereExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return q.Not(m), nil
	case *sqlparser.AndExpr:
		return combine(q.And, v.Left, v.Right)
	case *sqlparser.OrExpr:
		return combine(q.Or, v.Left, v.Right)
	case *sqlparser.IsExpr:
		col, ok := v.Expr.(*sqlparser.ColName)
		if !ok {
			return nil, errors.New("unsupported IS expression")
		}
		field := FieldName(col.Name.String())

		switch v.Operator {
		case sqlparser.IsNullStr:
			return q.Eq(field, nil), nil
		case sqlparser.IsNotNullStr:
			return q.Not(q.Eq(field, nil)), nil
		case sqlparser.IsTrueStr:
			return q.Eq(field, true), nil
		case sqlparser.IsFalseStr:
			return q.Eq(field, false), nil
		default:
			return nil, errors.Errorf("unsupported operator %s", v.Operator)
		}
	case *sqlparser.ComparisonExpr:
		return parseComparison(v)
	default:
		return nil, errors.Errorf("unsupported where expression: %s", sqlparser.String(expr))
	}
}

func combine(op func(...q.Matcher) q.Matcher, left, right sqlparser.Expr) (q.Matcher, error) {
	l, err := parseWhereExpr(left)
	if err != nil {
		return nil, err
	}
	r, err := parseWhereExpr(right)
	if err != nil {
		return nil, err
	}
	return op(l, r), nil
}

func parseComparison(v *sqlparser.ComparisonExpr) (q.Matcher, error) {
	col, ok := v.Left.(*sqlparser.ColName)
	if !ok {
		return nil, errors.New("left operand must be a column")
	}
	field := FieldName(col.Name.String())

	var value any
	switch sqlvalue := v.Right.(type) {
	case sqlparser.BoolVal:
		value = bool(sqlvalue)
	case *sqlparser.NullVal:
		value = nil
	case sqlparser.ValTuple:
		var tuple []any
		for _, t := range sqlvalue {
			val, ok := t.(*sqlparser.SQLVal)
			if !ok {
				return nil, errors.New("unsupported tuple value")
			}
			parsed, err := parseSQLVal(val)
			if err != nil {
				return nil, err
			}
			tuple = append(tuple, parsed)
		}
		value = tuple
	case *sqlparser.SQLVal:
		parsed, err := parseSQLVal(sqlvalue)
		if err != nil {
			return nil, err
		}
		value = parsed
	default:
		return nil, errors.Errorf("unsupported value: %s", sqlparser.String(v.Right))
	}

	switch v.Operator {
	case sqlparser.EqualStr:
		return q.Eq(field, value), nil
	case sqlparser.NotEqualStr:
		return q.Not(q.Eq(field, value)), nil
	case sqlparser.GreaterThanStr:
		return q.Gt(field, value), nil
	case sqlparser.GreaterEqualStr:
		return q.Gte(field, value), nil
	case sqlparser.LessThanStr:
		return q.Lt(field, value), nil
	case sqlparser.LessEqualStr:
		return q.Lte(field, value), nil
	case sqlparser.InStr:
		return q.In(field, value), nil
	case sqlparser.NotInStr:
		return q.Not(q.In(field, value)), nil
	case sqlparser.LikeStr:
		return q.Re(field, likeToRegexp(fmt.Sprintf("%v", value))), nil
	default:
		return nil, errors.Errorf("unsupported operator %s", v.Operator)
	}
}

// likeToRegexp converts a LIKE pattern (% and _ wildcards) to an anchored regexp.
func likeToRegexp(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexpQuote(r))
		}
	}
	b.WriteString("$")
	return b.String()
}

func regexpQuote(r rune) string {
	if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
		return `\` + string(r)
	}
	return string(r)
}

func parseInt(expr sqlparser.Expr) (int, error) {
	val, ok := expr.(*sqlparser.SQLVal)
	if !ok || val.Type != sqlparser.IntVal {
		return 0, errors.New("integer expected")
	}
	v, err := strconv.Atoi(string(val.Val))
	return v, errors.Wrap(err, "integer expected")
}

func parseSQLVal(v *sqlparser.SQLVal) (value any, err error) {
	switch v.Type {
	case sqlparser.StrVal:
		value = string(v.Val)

		// Try to convert to time.Time if possible
		if t, err := dateparse.ParseAny(string(v.Val)); err == nil {
			value = t.UTC()
		}
	case sqlparser.IntVal:
		value, err = strconv.Atoi(string(v.Val))
	case sqlparser.FloatVal:
		value, err = strconv.ParseFloat(string(v.Val), 64)
	case sqlparser.HexNum:
		value, err = strconv.ParseInt(strings.TrimPrefix(strings.ToLower(string(v.Val)), "0x"), 16, 64)
	case sqlparser.HexVal:
		value, err = v.HexDecode()
	case sqlparser.BitVal:
		value = len(v.Val) > 0 && v.Val[0] == '1'
	default:
		return nil, errors.New("unsupported value type")
	}

	return value, errors.Wrap(err, "invalid value")
}
