package version

import "fmt"

// Значения подставляются через -ldflags при сборке релизных бинарников;
// локальная сборка остаётся помеченной как dev.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info возвращает версию, коммит и дату сборки.
func Info() (v, c, d string) { return version, commit, date }

// String форматирует информацию о сборке для логов и ответа /healthz.
func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", version, commit, date)
}
