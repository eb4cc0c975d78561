// Package language provides language code normalization and the fixed
// translation target enumeration.
//
// Stream tags reported by ffprobe (ISO 639-2, occasionally ISO 639-1) are
// compared through Equivalent so default-language policies written as "eng"
// still match streams tagged "en". Target maps the operator-facing target
// names to the codes the translation service expects.
package language
