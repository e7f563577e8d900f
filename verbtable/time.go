package verbtable

import "time"

func nowFunc() time.Time { return time.Now() }
