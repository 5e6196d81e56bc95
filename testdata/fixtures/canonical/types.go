package canonical

import "time"

//fieldnames:derive
type TestWidget struct {
	ID        int64     `json:"id" yaml:"id"`
	WodgetID  string    `json:"wodget_id" yaml:"wodget_id"`
	Password  string    `json:"-" fieldnames:"skip"`
	CreatedAt time.Time `json:"created_at"`
	// revision is bookkeeping only
	//fieldnames:skip
	revision    int
	First, Last string
}

// TestEmbeddedGeneric carries a typed primary key.
//
//fieldnames:derive
type TestEmbeddedGeneric[T PrimaryKey, M any] struct {
	ID   T
	Meta M
}

type PrimaryKey interface {
	~string | ~int64
}

type TestPlain struct {
	Name  string
	Notes []string //fieldnames:skip
}
