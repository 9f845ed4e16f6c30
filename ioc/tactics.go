package ioc

// Tactic is one MITRE ATT&CK tactic with the literal indicator strings
// commonly left behind by techniques under it.
type Tactic struct {
	ID          string
	Name        string
	Description string
	Strings     []string
}

// Tactics returns the built-in tactic corpus, TA0001 through TA0011.
func Tactics() []Tactic {
	return tactics
}

// ByID returns the tactic with the given ATT&CK ID, or false when unknown.
func ByID(id string) (Tactic, bool) {
	for _, t := range tactics {
		if t.ID == id {
			return t, true
		}
	}
	return Tactic{}, false
}

// StringsFor returns the indicator strings for a tactic ID. Unknown IDs
// yield an empty slice.
func StringsFor(id string) []string {
	t, ok := ByID(id)
	if !ok {
		return nil
	}
	return t.Strings
}

var tactics = []Tactic{
	{
		ID:   "TA0001",
		Name: "Initial Access",
		Description: `The adversary is trying to get into your network.

Initial Access consists of techniques that use various entry vectors to gain their initial foothold within a network. Techniques used to gain a foothold include targeted spearphishing and exploiting weaknesses on public-facing web servers. Footholds gained through initial access may allow for continued access, like valid accounts and use of external remote services, or may be limited-use due to changing passwords.`,
		Strings: []string{
			"java.exe",
			"javaw.exe",
			"javaws.exe",
			"powershell.exe",
			"powershell_ise.exe",
			"rundll32.exe",
			"\\microsoft\\office\\outlook\\addins",
			".scf",
			".pptx",
			".ppt",
			".doc",
			".docx",
			".rtf",
			".pdf",
			".cmd",
			".bat",
			".jar",
			".lnk",
			".vbs",
			".vbe",
			"winword.exe",
			"powerpnt.exe",
			"excel.exe",
			"outlook.exe",
			"\\downloads\\",
			"temp\\7z",
		},
	},
	{
		ID:   "TA0002",
		Name: "Execution",
		Description: `The adversary is trying to run malicious code.

Execution consists of techniques that result in adversary-controlled code running on a local or remote system. Techniques that run malicious code are often paired with techniques from all other tactics to achieve broader goals, like exploring a network or stealing data. For example, an adversary might use a remote access tool to run a PowerShell script that does Remote System Discovery.`,
		Strings: []string{
			"CreateRemoteThread",
			"CreateThread",
			"CreateUserThread",
			"DllImport",
			"powershell.exe",
			"powershell_ise.exe",
			"pwsh.exe",
			"nps.exe",
			"rundll32.exe",
			"cmd.exe",
			"taskkill.exe",
			"wmic.exe",
			"wscript.exe",
			"wsl.exe",
			"bitsadmin.exe",
			"cscript.exe",
			"wcscript.exe",
			"encodedcommand",
			"-enc",
			"-e",
			"bypass",
			"iex",
			"-command",
		},
	},
	{
		ID:   "TA0003",
		Name: "Persistence",
		Description: `The adversary is trying to maintain their foothold.

Persistence consists of techniques that adversaries use to keep access to systems across restarts, changed credentials, and other interruptions that could cut off their access. Techniques used for persistence include any access, action, or configuration changes that let them maintain their foothold on systems, such as replacing or hijacking legitimate code or adding startup code.`,
		Strings: []string{
			"\\currentcontrolset\\control\\terminal server\\winstations\\rdp-tcp\\initialprogram",
			"\\currentcontrolset001\\control\\terminal server\\winstations\\rdp-tcp\\initialprogram",
			"\\microsoft\\windows nt\\currentversion\\winlogon\\gpextensions",
			"\\currentcontrolset\\services\\winsock",
			"\\currentcontrolset001\\services\\winsock",
			"\\microsoft\\windows\\currentversion\\explorer\\shelliconoverlayidentifiers",
			"\\microsoft\\wab\\dllpath",
			"\\microsoft\\windows\\currentversion\\controlpanel\\cpls",
			"\\currentcontrolset\\control\\session manager\\bootexecute",
			"\\currentcontrolset001\\control\\session manager\\bootexecute",
			"\\currentcontrolset\\control\\session manager\\appcertdlls",
			"\\currentcontrolset001\\control\\session manager\\appcertdlls",
			"\\wow6432node\\microsoft\\windows nt\\currentversion\\drivers32",
			"\\microsoft\\windows nt\\currentversion\\aedebug",
			"\\microsoft\\windows\\currentversion\\runservicesonce",
			"\\microsoft\\windows\\currentversion\\runservices",
			"\\microsoft\\windows nt\\currentversion\\winlogon",
			"\\microsoft\\windows\\currentversion\\shellserviceobjectdelayload",
			"\\microsoft\\windows\\currentversion\\runonce",
			"\\microsoft\\windows\\currentversion\\runonceex",
			"\\microsoft\\windows\\currentversion\\run",
			"\\microsoft\\windows\\currentversion\\policies\\explorer\\run",
			"\\microsoft\\windows nt\\currentversion\\windows\\load",
			"\\microsoft\\windows nt\\currentversion\\windows\\run",
			"\\microsoft\\windows nt\\currentversion\\windows",
			"\\microsoft\\windows nt\\currentversion\\windows\\appinit_dlls",
			"\\microsoft\\windows nt\\currentversion\\windows\\loadappinit_dlls",
			"\\microsoft\\windows\\currentversion\\explorer\\user shell folders",
			"\\microsoft\\windows\\currentversion\\explorer\\shell folders",
			"\\microsoft\\windows nt\\currentversion\\winlogon\\userinit",
			"\\microsoft\\windows nt\\currentversion\\winlogon\\notify",
			"\\microsoft\\windows nt\\currentversion\\winlogon\\shell",
			"\\microsoft\\windows nt\\currentversion\\winlogon\\system",
			"\\microsoft\\windows\\currentversion\\explorer\\browser helper objects",
			"\\microsoft\\office test\\special\\perf",
			"\\microsoft\\windows nt\\currentversion\\appcompatflags\\installedsdb",
			"\\microsoft\\windows nt\\currentversion\\appcompatflags\\custom",
			"environment\\userinitmprlogonscript",
			"control panel\\desktop\\scrnsave.exe",
			"\\ms-settings\\shell\\open\\command\\delegateexecute",
			"shell\\open\\command\\(default)",
			"user shell folders\\startup",
			"\\inprochandler",
			"\\inprocserver",
			"\\inprocserver32",
			"\\localserver",
			"\\localserver32\\shellex",
			"\\progid",
			"\\treatas",
			"\\scriptleturl",
			"\\imagepath",
			"\\binpath",
			"\\servicedll",
			"\\servicemanifest",
			"\\Start Menu",
			"\\Startup",
			"reg.exe",
		},
	},
	{
		ID:   "TA0004",
		Name: "Privilege Escalation",
		Description: `The adversary is trying to gain higher-level permissions.

Privilege Escalation consists of techniques that adversaries use to gain higher-level permissions on a system or network. Adversaries can often enter and explore a network with unprivileged access but require elevated permissions to follow through on their objectives. Common approaches are to take advantage of system weaknesses, misconfigurations, and vulnerabilities. Examples of elevated access include:

* SYSTEM/root level
* local administrator
* user account with admin-like access
* user accounts with access to specific system or perform specific function

These techniques often overlap with Persistence techniques, as OS features that let an adversary persist can execute in an elevated context.`,
		Strings: []string{
			"C:\\Windows\\system32\\lsass.exe",
			"mimikatz",
			"delpy",
			"wce.exe",
			"windows credential editor",
			"gsecdump.exe",
			"adfind.exe",
			"powershell.exe",
			"powershell_ise.exe",
			"pwsh.exe",
			"nps.exe",
			"rundll32.exe",
			"cmd.exe",
			"taskkill.exe",
			"wmic.exe",
			"wscript.exe",
			"wsl.exe",
			"bitsadmin.exe",
			"cscript.exe",
			"wcscript.exe",
			"AddSecurityPackage",
			"AdjustTokenPrivileges",
			"CreateProcessWithToken",
			"GetLogonSessionData",
			"GetMember",
			"GetMembers",
			"GetMethod",
			"GetMethods",
			"GetModuleHandle",
			"GetTokenInformation",
			"ImpersonateLoggedOnUser",
			"VirtualAlloc",
			"VirtualFree",
			"VirtualProtect",
			"WriteByte",
			"WriteInt32",
			"WriteProcessMemory",
			"ZeroFreeGlobalAllocUnicode",
			"OpenProcess",
			"ReadProcessMemory",
			"ReflectedType",
			"PtrToString",
			"PtrToStructure",
		},
	},
	{
		ID:   "TA0005",
		Name: "Defense Evasion",
		Description: `The adversary is trying to avoid being detected.

Defense Evasion consists of techniques that adversaries use to avoid detection throughout their compromise. Techniques used for defense evasion include uninstalling/disabling security software or obfuscating/encrypting data and scripts. Adversaries also leverage and abuse trusted processes to hide and masquerade their malware. Other tactics' techniques are cross-listed here when those techniques include the added benefit of subverting defenses.`,
		Strings: []string{
			"certutil.exe",
			"expand.exe",
			"makecab.exe",
			"\\eulaaccepted",
			"CreateDecryptor",
			"CreateEncryptor",
			"Cryptography",
			"CryptoServiceProvider",
			"CryptoStream",
			"EncodedCommand",
			"ExpandString",
			"FromBase64String",
			"ToBase64String",
			"EnumerateSecurityPackages",
		},
	},
	{
		ID:   "TA0006",
		Name: "Credential Access",
		Description: `The adversary is trying to steal account names and passwords.

Credential Access consists of techniques for stealing credentials like account names and passwords. Techniques used to get credentials include keylogging or credential dumping. Using legitimate credentials can give adversaries access to systems, make them harder to detect, and provide the opportunity to create more accounts to help achieve their goals.`,
		Strings: []string{
			"C:\\Windows\\system32\\lsass.exe",
			"mimikatz",
			"delpy",
			"wce.exe",
			"windows credential editor",
			"gsecdump.exe",
			"adfind.exe",
			"powershell.exe",
			"powershell_ise.exe",
			"pwsh.exe",
			"nps.exe",
			"rundll32.exe",
			"cmd.exe",
			"taskkill.exe",
			"wmic.exe",
			"wscript.exe",
			"wsl.exe",
			"bitsadmin.exe",
			"cscript.exe",
			"wcscript.exe",
			"Cryptography",
			"CryptoServiceProvider",
			"CryptoStream",
			"GetAsyncKeyState",
			"GetKeyboardState",
			"memcpy",
			"MemoryStream",
			"Methods",
			"MiniDumpWriteDump",
			"PasswordDeriveBytes",
		},
	},
	{
		ID:   "TA0007",
		Name: "Discovery",
		Description: `The adversary is trying to figure out your environment.

Discovery consists of techniques an adversary may use to gain knowledge about the system and internal network. These techniques help adversaries observe the environment and orient themselves before deciding how to act. They also allow adversaries to explore what they can control and what's around their entry point in order to discover how it could benefit their current objective. Native operating system tools are often used toward this post-compromise information-gathering objective.`,
		Strings: []string{
			"AccessChk.exe",
			"AccessEnum.exe",
			"LoadOrder.exe",
			"LogonSessions.exe",
			"PipeList.exe",
			"PsGetSID.exe",
			"PsInfo.exe",
			"PsList.exe",
			"PsService.exe",
			"ipconfig.exe",
			"netstat.exe",
			"qprocess.exe",
			"query.exe",
			"quser.exe",
			"GetAssemblies",
			"GetAsyncKeyState",
			"GetConstructor",
			"GetConstructors",
			"GetDefaultMembers",
			"GetDelegateForFunctionPointer",
			"GetEvent",
			"GetEvents",
			"GetField",
			"GetFields",
			"GetForegroundWindow",
			"GetInterface",
			"GetInterfaceMap",
			"GetInterfaces",
			"GetKeyboardState",
			"GetLogonSessionData",
			"GetMember",
			"GetMembers",
			"GetMethod",
			"GetMethods",
			"GetModuleHandle",
			"GetNestedType",
			"GetNestedTypes",
			"GetPowerShell",
			"GetProcAddress",
			"GetProcessHandle",
			"GetProperties",
			"GetProperty",
			"GetTokenInformation",
			"GetTypes",
		},
	},
	{
		ID:   "TA0008",
		Name: "Lateral Movement",
		Description: `The adversary is trying to move through your environment.

Lateral Movement consists of techniques that adversaries use to enter and control remote systems on a network. Following through on their primary objective often requires exploring the network to find their target and subsequently gaining access to it. Reaching their objective often involves pivoting through multiple systems and accounts to gain. Adversaries might install their own remote access tools to accomplish Lateral Movement or use legitimate credentials with native network and operating system tools, which may be stealthier.`,
		Strings: []string{
			"\\eulaaccepted",
			"powershell.exe",
			"powershell_ise.exe",
			"pwsh.exe",
			"nps.exe",
			"rundll32.exe",
			"cmd.exe",
			"wmic.exe",
			"wscript.exe",
			"wsl.exe",
			"bitsadmin.exe",
			"cscript.exe",
			"wcscript.exe",
			"robocopy.exe",
			"psexec.exe",
			"psexesvc.exe",
			"remcomvsvc.exe",
			"remcom.exe",
			"paexec.exe",
			"csexec.exe",
			"csexecsvc.exe",
			"net.exe",
			"net use",
			"mstsc.exe",
			"3389",
			"5985",
			"5986",
			"schtasks.exe",
			"at.exe",
			"vncviewer.exe",
			"vnc.exe",
			"winexesvc.exe",
			"ftp.exe",
			"telnet.exe",
		},
	},
	{
		ID:   "TA0009",
		Name: "Collection",
		Description: `The adversary is trying to gather data of interest to their goal.

Collection consists of techniques adversaries may use to gather information and the sources information is collected from that are relevant to following through on the adversary's objectives. Frequently, the next goal after collecting data is to steal (exfiltrate) the data. Common target sources include various drive types, browsers, audio, video, and email. Common collection methods include capturing screenshots and keyboard input.`,
		Strings: []string{
			"powershell.exe",
			"powershell_ise.exe",
			"pwsh.exe",
			"nps.exe",
			"rundll32.exe",
			"cmd.exe",
			"wmic.exe",
			"cscript.exe",
			"wcscript.exe",
			"wsl.exe",
			".zip",
			".rar",
			".7z",
			".cab",
			"rar.exe",
			"-hp",
			"7z.exe",
		},
	},
	{
		ID:   "TA0010",
		Name: "Exfiltration",
		Description: `The adversary is trying to steal data.

Exfiltration consists of techniques that adversaries may use to steal data from your network. Once they've collected data, adversaries often package it to avoid detection while removing it. This can include compression and encryption. Techniques for getting data out of a target network typically include transferring it over their command and control channel or an alternate channel and may also include putting size limits on the transmission.`,
		Strings: []string{
			"powershell.exe",
			"powershell_ise.exe",
			"pwsh.exe",
			"nps.exe",
			"rundll32.exe",
			"cmd.exe",
			"wmic.exe",
			"cscript.exe",
			"wcscript.exe",
			"wsl.exe",
			".zip",
			".rar",
			".7z",
			".cab",
			"rar.exe",
			"-hp",
			"7z.exe",
			"bitsadmin.exe",
			"robocopy.exe",
		},
	},
	{
		ID:   "TA0011",
		Name: "Command and Control",
		Description: `The adversary is trying to communicate with compromised systems to control them.

Command and Control consists of techniques that adversaries may use to communicate with systems under their control within a victim network. Adversaries commonly attempt to mimic normal, expected traffic to avoid detection. There are many ways an adversary can establish command and control with various levels of stealth depending on the victim's network structure and defenses.`,
		Strings: []string{
			"9000",
			"9001",
			"9030",
			"tor.exe",
		},
	},
}
