package kvenum

//go:generate go tool stringer -type=Enable -trimprefix=Enable -output=enable_string.go

// Enable is the yes/no switch stored as 1/0.
type Enable int

const (
	EnableNo  Enable = 0
	EnableYes Enable = 1
)

var enableDescs = map[Enable]string{
	EnableNo:  "否",
	EnableYes: "是",
}

// Values lists every Enable value.
func Values() []Enable {
	return []Enable{EnableYes, EnableNo}
}

func (e Enable) Code() int {
	return int(e)
}

func (e Enable) Desc() string {
	return enableDescs[e]
}

func (e Enable) IsValid() bool {
	_, ok := enableDescs[e]
	return ok
}
