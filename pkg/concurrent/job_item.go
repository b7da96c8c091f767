package concurrent

type POIItem struct {
	ID       string
	Name     string
	Category string
	Lat      float64
	Lon      float64
}

// SavePOIJobItem semua poi di 1 h3 cell.
type SavePOIJobItem struct {
	KeyStr string
	ValArr []POIItem
}

type JobI interface {
	SavePOIJobItem
}

type Job[T JobI] struct {
	ID      int
	JobItem T
}

type JobFunc[T JobI, G any] func(job T) G
