package chrome

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/localscorm/scormshim/internal/rte"
)

// probeJS finds each global the way SCORM content does (this window, then up to 7
// parents, then the opener) and calls every listed method with a typical argument
// pair. The result is a JSON string:
//
//	{"API": {"found": true, "results": {"LMSInitialize": "true", ...}, "types": {"LMSInitialize": "string", ...}}, ...}
const probeJS = `(() => {
	const want = %s;
	const lookup = (w, name) => {
		try {
			const v = w[name];
			return v === undefined || v === null ? null : v;
		} catch (e) {
			return null; // cross-origin frame
		}
	};
	const find = (name) => {
		let w = window;
		for (let hops = 0; w && hops <= 7; hops++) {
			const api = lookup(w, name);
			if (api) return api;
			if (w.parent === w) break;
			w = w.parent;
		}
		return window.opener ? lookup(window.opener, name) : null;
	};
	const out = {};
	for (const [global, methods] of Object.entries(want)) {
		const api = find(global);
		const entry = { found: api !== null, results: {}, types: {} };
		if (api) {
			for (const m of methods) {
				try {
					const r = api[m]("cmi.core.lesson_status", "completed");
					entry.results[m] = typeof r === "string" ? r : String(r);
					entry.types[m] = typeof r;
				} catch (e) {
					entry.results[m] = String(e);
					entry.types[m] = "exception";
				}
			}
		}
		out[global] = entry;
	}
	return JSON.stringify(out);
})()`

// ProbeRTE locates API and API_1484_11 from the tab's top document and calls every
// method of both tables. The returned document is keyed by global name.
func ProbeRTE(ctx context.Context) (gjson.Result, error) {
	want := `{}`
	var err error
	for _, v := range rte.Versions() {
		want, err = sjson.Set(want, v.GlobalName(), rte.TableFor(v).Methods())
		if err != nil {
			return gjson.Result{}, errors.Wrap(err, "building probe")
		}
	}
	out, err := ExecuteInto[string](ctx, fmt.Sprintf(probeJS, want))
	if err != nil {
		return gjson.Result{}, errors.Wrap(err, "evaluating probe")
	}
	if !gjson.Valid(*out) {
		return gjson.Result{}, errors.Errorf("probe returned invalid JSON: %s", *out)
	}
	return gjson.Parse(*out), nil
}
