// migrations содержит SQL-схему PostgreSQL, встроенную в бинарник.
package migrations

import "embed"

// FS — файлы миграций; *.up.sql применяются по возрастанию номера.
//
//go:embed *.sql
var FS embed.FS
