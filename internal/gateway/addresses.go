package gateway

// CuratedAddresses is the fixed set of collection contracts the service
// tracks, fetched strictly in this order.
var CuratedAddresses = []string{
	"0xBC4CA0EdA7647A8aB7C2061c2E118A18a936f13D", // Bored Ape Yacht Club
	"0x60E4d786628Fea6478F785A6d7e704777c86a7c6", // Mutant Ape Yacht Club
	"0xb47e3cd837dDF8e4c57F05d70Ab865de6e193BBB", // CryptoPunks
	"0xED5AF388653567Af2F388E6224dC7C4b3241C544", // Azuki
	"0x8a90CAb2b38dba80c64b7734e58Ee1dB38B8992e", // Doodles
	"0x23581767a106ae21c074b2276D25e5C3e136a68b", // Moonbirds
	"0x49cF6f5d44E70224e2E23fDcdd2C053F30aDA28B", // CloneX
	"0xBd3531dA5CF5857e7CfAA92426877b022e612cf8", // Pudgy Penguins
	"0x7Bd29408f11D2bFC23c34f18275bBf23bB716Bc7", // Meebits
	"0xe785E82358879F061BC3dcAC6f0444462D4b5330", // World of Women
	"0x1A92f7381B9F03921564a437210bB9396471050C", // Cool Cats
	"0xa3AEe8BcE55BEeA1951EF834b99f3Ac60d1ABeeB", // VeeFriends
	"0xba30E5F9Bb24caa003E9f2f0497Ad287FDF95623", // Bored Ape Kennel Club
	"0x34d85c9CDeB23FA97cb08333b511ac86E1C4E258", // Otherdeed for Otherside
	"0x5Af0D9827E0c53E4799BB226655A1de152A425a5", // Milady Maker
	"0x059EDD72Cd353dF5106D2B9cC5ab83a52287aC3a", // Art Blocks: Chromie Squiggle
}
