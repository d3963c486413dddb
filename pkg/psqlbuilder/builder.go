package psqlbuilder

import "github.com/Masterminds/squirrel"

// Builder построитель запросов с фиксированным форматом плейсхолдеров
type Builder struct {
	sb squirrel.StatementBuilderType
}

// New создает построитель с указанным форматом плейсхолдеров
// (squirrel.Dollar для PostgreSQL, squirrel.Question для SQLite)
func New(format squirrel.PlaceholderFormat) Builder {
	return Builder{sb: squirrel.StatementBuilder.PlaceholderFormat(format)}
}

// Postgres построитель с плейсхолдерами $1, $2, ...
func Postgres() Builder {
	return New(squirrel.Dollar)
}

func (b Builder) Select(columns ...string) squirrel.SelectBuilder {
	return b.sb.Select(columns...)
}

func (b Builder) Insert(table string) squirrel.InsertBuilder {
	return b.sb.Insert(table)
}

func (b Builder) Update(table string) squirrel.UpdateBuilder {
	return b.sb.Update(table)
}

func (b Builder) Delete(table string) squirrel.DeleteBuilder {
	return b.sb.Delete(table)
}

var defaultBuilder = Postgres()

// Select начинает SELECT запрос для PostgreSQL
func Select(columns ...string) squirrel.SelectBuilder {
	return defaultBuilder.Select(columns...)
}

// Insert начинает INSERT запрос для PostgreSQL
func Insert(table string) squirrel.InsertBuilder {
	return defaultBuilder.Insert(table)
}

// Update начинает UPDATE запрос для PostgreSQL
func Update(table string) squirrel.UpdateBuilder {
	return defaultBuilder.Update(table)
}

// Delete начинает DELETE запрос для PostgreSQL
func Delete(table string) squirrel.DeleteBuilder {
	return defaultBuilder.Delete(table)
}
