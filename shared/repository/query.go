package repository

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"skybook/shared/dto"
)

type column struct {
	name  string
	table string
	alias string
}

// expr renders the column for a SELECT list.
func (c column) expr() string {
	switch {
	case c.table == "":
		return c.name
	case c.alias != "":
		return fmt.Sprintf("%s.%s AS %s", c.table, c.name, c.alias)
	default:
		return c.table + "." + c.name
	}
}

// readColumns walks the db tags of a model. Fields tagged with a foreign `table` are joined
// columns: they are selected but never inserted. A `column` tag selects a differently named
// source column under the db tag as alias.
func readColumns(table string, typ reflect.Type) (selected []column, insertable []string) {
	for i := range typ.NumField() {
		field := typ.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			sel, ins := readColumns(table, field.Type)
			selected = append(selected, sel...)
			insertable = append(insertable, ins...)
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" || dbTag == "-" {
			continue
		}

		source := field.Tag.Get("table")
		if source == "" || source == table {
			source = table
			insertable = append(insertable, dbTag)
		}

		if name := field.Tag.Get("column"); name != "" {
			selected = append(selected, column{name: name, table: source, alias: dbTag})

			continue
		}

		selected = append(selected, column{name: dbTag, table: source})
	}

	return selected, insertable
}

// joinClause calls the optional GetJoinQuery method of the model.
func joinClause(model any) string {
	joiner, ok := model.(interface{ GetJoinQuery() string })
	if !ok {
		return ""
	}

	return joiner.GetJoinQuery()
}

func whereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return "WHERE " + where, args
}

func (repo *Repository[T]) selectList(only ...string) string {
	exprs := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) > 0 && !slices.Contains(only, col.name) {
			continue
		}

		exprs = append(exprs, col.expr())
	}

	return strings.Join(exprs, ", ")
}

func (repo *Repository[T]) from() string {
	return strings.TrimSpace(repo.table + " " + repo.join)
}

func (repo *Repository[T]) insertQuery() string {
	placeholders := make([]string, len(repo.InsertColumns))
	for i, col := range repo.InsertColumns {
		placeholders[i] = ":" + col
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		repo.table, strings.Join(repo.InsertColumns, ", "), strings.Join(placeholders, ", "))
}

func (repo *Repository[T]) getQuery(where string, lock bool, only ...string) string {
	query := join("SELECT", repo.selectList(only...), "FROM", repo.from(), where)
	if lock {
		query += " FOR UPDATE OF " + repo.table
	}

	return query
}

// listQuery adds ORDER BY and LIMIT/OFFSET to the select. Paging values are bound into args.
func (repo *Repository[T]) listQuery(where string, args map[string]any, params dto.QueryParams, only ...string) string {
	var ordering, paging string

	if params.SortBy != "" && params.SortDir != "" {
		ordering = fmt.Sprintf("ORDER BY %s %s", params.SortBy, params.SortDir)
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		paging = "LIMIT :limit"

		if params.Page > 0 {
			args["offset"] = params.Offset()
			paging += " OFFSET :offset"
		}
	}

	return join("SELECT", repo.selectList(only...), "FROM", repo.from(), where, ordering, paging)
}

func (repo *Repository[T]) countQuery(where string) string {
	return join(fmt.Sprintf("SELECT COUNT(%s.%s) FROM", repo.table, repo.primaryColumn), repo.from(), where)
}

func (repo *Repository[T]) existQuery(where string) string {
	return fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.table, where)
}

// updateQuery sets the fields in sorted order so the statement text is stable.
func (repo *Repository[T]) updateQuery(fields map[string]any, where string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}

	slices.Sort(names)

	assignments := make([]string, len(names))
	for i, name := range names {
		assignments[i] = fmt.Sprintf("%s = :%s", name, name)
	}

	return join("UPDATE", repo.table, "SET", strings.Join(assignments, ", "), where)
}

func (repo *Repository[T]) deleteQuery(where string) string {
	return join("DELETE FROM", repo.table, where)
}

func join(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))

	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}

	return strings.Join(nonEmpty, " ")
}
