package logging

import (
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// LevelOverwriteHandler returns an http.HandlerFunc that temporarily raises
// the logrus level to debug or info for the given duration, then restores
// restoreLevel. Grounded on Aurora's debug-level-for-a-while runbook trick:
// ?level=debug&duration=3s.
func LevelOverwriteHandler(restoreLevel log.Level) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		levelParam := r.URL.Query().Get("level")
		durationParam := r.URL.Query().Get("duration")
		if levelParam == "" || durationParam == "" {
			var missing []string
			if levelParam == "" {
				missing = append(missing, "level")
			}
			if durationParam == "" {
				missing = append(missing, "duration")
			}
			http.Error(w, fmt.Sprintf("Required params not set: %v", missing), http.StatusBadRequest)
			return
		}

		newLevel, err := log.ParseLevel(levelParam)
		if err != nil {
			http.Error(w, fmt.Sprintf("%q is not a valid logrus Level", levelParam), http.StatusBadRequest)
			return
		}
		if newLevel != log.DebugLevel && newLevel != log.InfoLevel {
			http.Error(w, fmt.Sprintf("New Level %s is not info or debug", levelParam), http.StatusBadRequest)
			return
		}

		duration, err := time.ParseDuration(durationParam)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid duration %s", durationParam), http.StatusBadRequest)
			return
		}

		log.SetLevel(newLevel)
		time.AfterFunc(duration, func() {
			log.SetLevel(restoreLevel)
		})

		fmt.Fprintf(w, "Level changed to %s for %s", levelParam, duration)
	}
}
