package units

const (
	KB = 1000.0
	MB = 1000.0 * KB
	GB = 1000.0 * MB
)
