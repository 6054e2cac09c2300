package postgres

import "github.com/lib/pq"

var pqError23505 = pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}
