package entity

type AcademicStream struct {
	BaseSimple
	Name   string `db:"name"`
	NameAr string `db:"name_ar"`
}
