package dictionary

import "strings"

// builtinWords is the fallback word list used when no dictionary file is
// configured or the configured one cannot be read. It covers the frequency
// tiers plus enough everyday vocabulary to keep the spell engine useful.
var builtinWords = strings.Fields(`
the be to of and a in that have i it for not on with he as you do at
this but his by from they we say her she or an will my one all would
there their what so up out if about who get which go me when make can
like time no just him know take people into year your good some could
them see other than then now look only come its over think also back
after use two how our work first well way even new want because any
these give day most us is was are were been has had did said get got
man woman child world life hand part eye place week case point company
number group problem fact home water room mother area money story
month lot right study book word business issue side kind head house
service friend father power hour game line end member law car city
name team minute idea body information face others level office door
health person art war history party result change morning reason
research girl guy moment air teacher force education receive package
believe achieve friend night light through message text thanks please
separate definitely really weird until which beginning referred across
government environment occasion necessary tomorrow successful
basically finally misspell occurred occurrence existence publicly
something nothing everything anyone everyone always never often
sometimes together different important possible available little large
small great long short high low early late young old own same able
each both few more much many very still last next keep let begin seem
help talk turn start show hear play run move live stand lose pay meet
include continue set learn lead understand watch follow stop create
speak read allow add spend grow open walk win offer remember love
consider appear buy wait serve die send expect build stay fall cut
reach kill remain suggest raise pass sell require report decide pull
`)

// isAlphaLower reports whether w is non-empty lowercase ASCII letters only.
// Word-list entries with digits or punctuation are skipped at load.
func isAlphaLower(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
