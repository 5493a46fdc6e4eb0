package internal

import (
	"os"
	"os/user"
	"regexp"
	"sort"
	"strings"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/rs/zerolog/log"
)

var sensitiveRegex = regexp.MustCompile(`(?i)(PASSWORD|API_KEY|ACCESS_KEY|SECRET|TOKEN)`)

func ShowVersion() {
	log.Info().Str("version", versioninfo.Short()).Msg("png-decoder")
}

// EnvironmentVars logs the environment at debug level, masking anything that looks like a credential.
func EnvironmentVars() {
	environ := os.Environ()
	sort.Strings(environ)

	fields := make(map[string]any, len(environ))
	for _, entry := range environ {
		key, value, _ := strings.Cut(entry, "=")
		if sensitiveRegex.MatchString(key) {
			value = "********"
		}
		fields[key] = value
	}
	log.Debug().Fields(fields).Msg("Environment variables")
}

func UserInfo() {
	event := log.Debug().Int("pid", os.Getpid())
	if currentUser, err := user.Current(); err != nil {
		event = event.AnErr("userErr", err)
	} else {
		event = event.Str("uid", currentUser.Uid).Str("user", currentUser.Username).Str("gid", currentUser.Gid)
	}
	event.Msg("Process info")
}
