package names

// nicknameTable maps a formal given name to its informal variants. The
// formal name is the group id. Covers the common English given names
// seen in the archive; config may layer additional entries on top.
var nicknameTable = map[string][]string{
	"abigail":     {"abby", "abbie", "gail"},
	"albert":      {"al", "bert", "bertie"},
	"alexander":   {"alex", "al", "sasha", "xander"},
	"alexandra":   {"alex", "sandra", "sasha", "lexi"},
	"alfred":      {"al", "alf", "alfie", "fred"},
	"andrew":      {"andy", "drew"},
	"anthony":     {"tony", "ant"},
	"arthur":      {"art", "artie"},
	"barbara":     {"barb", "barbie", "babs"},
	"benjamin":    {"ben", "benny", "benji"},
	"bernard":     {"bernie", "barney"},
	"bradley":     {"brad"},
	"catherine":   {"cathy", "kate", "katie", "cat", "kitty"},
	"charles":     {"charlie", "chuck", "chas", "chip"},
	"christina":   {"chris", "christy", "tina"},
	"christopher": {"chris", "kit", "topher"},
	"daniel":      {"dan", "danny"},
	"david":       {"dave", "davey"},
	"deborah":     {"deb", "debbie"},
	"dennis":      {"denny"},
	"donald":      {"don", "donny"},
	"dorothy":     {"dot", "dottie"},
	"douglas":     {"doug"},
	"edward":      {"ed", "eddie", "ted", "teddy", "ned"},
	"eleanor":     {"ellie", "nell", "nora"},
	"elizabeth":   {"liz", "lizzie", "beth", "betsy", "betty", "eliza", "libby"},
	"eugene":      {"gene"},
	"florence":    {"flo", "flossie"},
	"francis":     {"frank", "fran", "frankie"},
	"frederick":   {"fred", "freddie", "freddy"},
	"gerald":      {"gerry", "jerry"},
	"gregory":     {"greg"},
	"harold":      {"harry", "hal"},
	"henry":       {"hank", "harry", "hal"},
	"herbert":     {"herb", "herbie", "bert"},
	"isabella":    {"bella", "izzy"},
	"jacob":       {"jake"},
	"james":       {"jim", "jimmy", "jamie"},
	"janet":       {"jan"},
	"jeffrey":     {"jeff"},
	"jennifer":    {"jen", "jenny"},
	"jessica":     {"jess", "jessie"},
	"jonathan":    {"jon", "johnny", "nathan"},
	"joseph":      {"joe", "joey"},
	"joshua":      {"josh"},
	"katherine":   {"kathy", "kate", "katie", "kay"},
	"kenneth":     {"ken", "kenny"},
	"kimberly":    {"kim"},
	"lawrence":    {"larry", "lars"},
	"leonard":     {"leo", "len", "lenny"},
	"margaret":    {"maggie", "meg", "peggy", "marge", "margo"},
	"matthew":     {"matt", "matty"},
	"michael":     {"mike", "mikey", "mick", "mickey"},
	"nathaniel":   {"nate", "nathan", "nat"},
	"nicholas":    {"nick", "nicky"},
	"pamela":      {"pam"},
	"patricia":    {"pat", "patty", "trish", "tricia"},
	"patrick":     {"pat", "paddy", "rick"},
	"peter":       {"pete"},
	"philip":      {"phil"},
	"rachel":      {"rae"},
	"raymond":     {"ray"},
	"rebecca":     {"becky", "becca"},
	"richard":     {"rick", "ricky", "dick", "rich", "richie"},
	"robert":      {"rob", "bob", "bobby", "robbie", "bert"},
	"ronald":      {"ron", "ronnie"},
	"russell":     {"russ", "rusty"},
	"samuel":      {"sam", "sammy"},
	"sandra":      {"sandy"},
	"stephen":     {"steve", "steven", "stevie"},
	"stuart":      {"stu"},
	"susan":       {"sue", "susie", "suzy"},
	"theodore":    {"ted", "teddy", "theo"},
	"thomas":      {"tom", "tommy"},
	"timothy":     {"tim", "timmy"},
	"victoria":    {"vicky", "vickie", "tori"},
	"vincent":     {"vince", "vinny"},
	"walter":      {"walt", "wally"},
	"william":     {"will", "bill", "billy", "willy", "liam"},
	"zachary":     {"zach", "zack"},
}
