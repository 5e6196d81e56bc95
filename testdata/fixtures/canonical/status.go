package canonical

//variantnames:derive
type TestStatus int

const (
	StatusActive TestStatus = iota
	StatusSuspended
	//variantnames:skip
	statusSentinel
	_
	StatusClosed
)

type TestColor string

const (
	ColorRed   TestColor = "red"
	ColorGreen TestColor = "green"
)
