package dict

// fallbackWords is a small embedded word list used when data/words.txt is
// absent, enough to keep the solver and fusion functional in development.
func fallbackWords() []string {
	return []string{
		"able", "about", "act", "actor", "add", "age", "ago", "air", "all",
		"and", "ant", "any", "arm", "art", "ask", "ate", "bad", "bag", "ball",
		"band", "bat", "bath", "bear", "bed", "bee", "best", "big", "bird",
		"bit", "blue", "board", "boat", "book", "born", "both", "box", "boy",
		"bread", "bus", "but", "cake", "call", "came", "can", "cap", "car",
		"card", "care", "cart", "cat", "chair", "city", "coat", "cold", "come",
		"cook", "cool", "corn", "cost", "cow", "cup", "cut", "dad", "dark",
		"day", "deep", "desk", "dog", "door", "down", "draw", "dream", "drop",
		"dry", "duck", "ear", "earth", "east", "easy", "eat", "egg", "end",
		"eye", "face", "fall", "far", "farm", "fast", "fat", "feet", "fell",
		"few", "fig", "find", "fine", "fire", "fish", "five", "flag", "floor",
		"fly", "food", "foot", "for", "four", "fox", "free", "frog", "from",
		"fun", "game", "gate", "gave", "get", "girl", "give", "goat", "gold",
		"good", "got", "grass", "green", "grow", "had", "hand", "hard", "hat",
		"have", "hear", "heart", "hello", "help", "hen", "her", "hex", "hide",
		"high", "hill", "him", "his", "hold", "home", "hop", "horse", "hot",
		"house", "how", "ice", "ink", "into", "iron", "jam", "jar", "jet",
		"job", "jump", "just", "keep", "key", "kid", "kind", "king", "kit",
		"kite", "knee", "know", "lake", "lamp", "land", "last", "late", "leaf",
		"left", "leg", "let", "life", "light", "like", "line", "lion", "lip",
		"list", "live", "log", "long", "look", "lot", "loud", "love", "low",
		"made", "make", "man", "many", "map", "mat", "meat", "men", "milk",
		"mind", "mine", "miss", "mom", "moon", "more", "most", "mouse", "move",
		"much", "mud", "must", "name", "near", "neck", "need", "nest", "net",
		"new", "next", "nice", "night", "nine", "north", "nose", "not", "note",
		"now", "nut", "oak", "oar", "off", "oil", "old", "once", "one", "open",
		"our", "out", "over", "owl", "own", "page", "pan", "park", "part",
		"pat", "path", "pen", "pet", "pick", "pig", "pin", "pink", "plan",
		"plant", "play", "pond", "pot", "pull", "push", "put", "rain", "ran",
		"rat", "read", "red", "rest", "ride", "ring", "road", "rock", "room",
		"rope", "rose", "rot", "rug", "run", "sad", "salt", "same", "sand",
		"sat", "saw", "say", "sea", "seat", "see", "seed", "seen", "set",
		"seven", "shape", "she", "sheep", "ship", "shoe", "shop", "show",
		"sick", "side", "sing", "sit", "six", "sky", "sleep", "slow", "small",
		"snow", "soap", "sock", "soft", "some", "son", "song", "soon", "south",
		"star", "stay", "step", "stop", "story", "sun", "swim", "tail", "take",
		"talk", "tall", "tan", "tap", "tar", "tea", "teach", "team", "tell",
		"ten", "tent", "that", "the", "them", "then", "they", "thin", "this",
		"three", "time", "tin", "tip", "today", "toe", "told", "ton", "too",
		"took", "top", "town", "toy", "train", "tree", "trip", "truck", "try",
		"turn", "two", "under", "upon", "use", "van", "very", "wait", "walk",
		"wall", "want", "warm", "was", "wash", "water", "wave", "way", "wear",
		"well", "went", "west", "wet", "what", "when", "white", "who", "why",
		"wide", "will", "win", "wind", "wing", "wish", "with", "wood", "word",
		"work", "yard", "year", "yes", "yet", "you", "zoo",
	}
}
