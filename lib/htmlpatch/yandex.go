package htmlpatch

import (
	"regexp"
)

type replacement struct {
	pattern *regexp.Regexp
	with    string
}

// yandexSDKFunctions are the SDK wrappers that await a promise that never
// resolves once the SDK script is gone.
var yandexSDKFunctions = []string{
	"RequestingEnvironmentData", "InitPlayer", "LoadCloud", "InitReview",
	"GetStats", "InitPayments", "GetAllGames", "InitGameLabel", "GetFlags",
}

var yandexReplacements = func() []replacement {
	out := []replacement{
		{
			regexp.MustCompile(`<!-- Yandex Games SDK -->\s*<script src="sdk\.js"></script>`),
			"",
		},
		{
			regexp.MustCompile(`(?s)async function InitYSDK\(\) \{[^}]*try \{[^}]*if \(IsLocalHost\(\)\) return;[^}]*\} catch \(e\) \{[^}]*\}.*?if \(!IsLocalHost\(\) && !syncInit\)\s+StartUnityInstance_IfUnloaded\(\);`),
			"async function InitYSDK() {\n" +
				"            // Yandex SDK removed - start game immediately\n" +
				"            if (IsLocalHost() || syncInit)\n" +
				"                StartUnityInstance_IfUnloaded();\n" +
				"        }",
		},
		{
			regexp.MustCompile(`InstallBlurFocusBlocker\(\);\s*InitYSDK\(\);`),
			"InstallBlurFocusBlocker();\n            StartUnityInstance_IfUnloaded();",
		},
	}
	for _, fn := range yandexSDKFunctions {
		out = append(out, replacement{
			regexp.MustCompile(`(?s)function ` + fn + `\([^)]*\) \{[^}]*return new Promise[^}]*\}`),
			"function " + fn + `() { return Promise.resolve("no data"); }`,
		})
	}
	return append(out,
		replacement{regexp.MustCompile(`ysdk = await[^;]*;`), "// ysdk removed"},
		replacement{regexp.MustCompile(`player = await[^;]*;`), "// player removed"},
		replacement{regexp.MustCompile(`payments = await[^;]*;`), "// payments removed"},
		replacement{regexp.MustCompile(`if \(ysdk == null\)`), "if (true) // Yandex SDK removed"},
		replacement{regexp.MustCompile(`if \(!ysdk\)`), "if (true) // Yandex SDK removed"},
		replacement{regexp.MustCompile(`if \(ysdk !== null\)`), "if (false) // Yandex SDK removed"},
	)
}()

// StripYandexSDK removes the Yandex Games SDK from a Unity page exported
// for Yandex so that the game starts without it. The returned count is the
// change in length, positive when the page shrank.
func StripYandexSDK(html string) (string, int) {
	out := html
	for _, r := range yandexReplacements {
		out = r.pattern.ReplaceAllLiteralString(out, r.with)
	}
	return out, len(html) - len(out)
}
